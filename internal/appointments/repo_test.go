package appointments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRepositoryFindByIDForUpdateEmitsRowLock(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	var captured string
	require.NoError(t, gdb.Callback().Query().After("gorm:query").Register("capture_query_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	}))

	repo := NewRepository(gdb.Session(&gorm.Session{DryRun: true}))
	_, _ = repo.FindByIDForUpdate(context.Background(), uuid.New())

	require.Contains(t, captured, "FOR UPDATE")
}
