package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestUserMembershipsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_user_memberships.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS user_memberships",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"FOREIGN KEY (card_id) REFERENCES membership_cards(id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_user_memberships_card_number",
		"CHECK (payment_amount >= 0)",
		"DROP TABLE IF EXISTS user_memberships",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAppointmentsMigrationHasPartialUniqueSlotIndex(t *testing.T) {
	content := readMigration(t, "*_create_appointments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS appointments",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_booked_slot",
		"WHERE status = 'booked'",
		"DROP TABLE IF EXISTS appointments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUserRightsCardsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_user_rights_cards.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS user_rights_cards",
		"status text NOT NULL DEFAULT 'inactive'",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_user_rights_cards_card_number",
		"DROP TABLE IF EXISTS user_rights_cards",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
