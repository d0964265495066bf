package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/careplushealth/careplus-backend/api/middleware"
	"github.com/careplushealth/careplus-backend/pkg/enums"
	pkgerrors "github.com/careplushealth/careplus-backend/pkg/errors"
)

// actorFromContext recovers the authenticated identity seeded by the auth
// middleware.
func actorFromContext(ctx context.Context) (uuid.UUID, enums.UserRole, error) {
	rawID := middleware.UserIDFromContext(ctx)
	if rawID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	actorID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session identity")
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session role")
	}
	return actorID, role, nil
}
