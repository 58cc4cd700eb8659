package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type userByEmailReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type RoleResolver struct {
	users userByEmailReader
}

func NewRoleResolver(users userByEmailReader) *RoleResolver {
	return &RoleResolver{users: users}
}

// Resolve returns the role stored for email. Unknown users resolve to
// models.RoleUnset.
func (r *RoleResolver) Resolve(ctx context.Context, email string) (models.Role, error) {
	user, err := r.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RoleUnset, nil
	}
	if err != nil {
		return models.RoleUnset, fmt.Errorf("%w: resolve role: %w", ErrUpstream, err)
	}
	return models.ParseRole(string(user.Role)), nil
}
