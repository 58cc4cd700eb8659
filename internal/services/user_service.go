package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"go.uber.org/zap"
)

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	InsertIfAbsent(ctx context.Context, user *models.User) (bool, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) (int64, error)
	List(ctx context.Context) ([]models.User, error)
}

type RegisterUserInput struct {
	Email    string
	Name     *string
	PhotoURL *string
}

type UserService struct {
	users  userStore
	logger *zap.Logger
}

func NewUserService(users userStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// Register stores a user on first sign-in. Registering the same email again
// is a no-op and reports inserted == false.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (bool, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(input.Email))
	if err != nil {
		return false, ErrInvalidInput
	}

	user := &models.User{
		Email:    normalizeEmail(parsed.Address),
		Name:     input.Name,
		PhotoURL: input.PhotoURL,
		Role:     models.RoleStudent,
	}
	inserted, err := s.users.InsertIfAbsent(ctx, user)
	if err != nil {
		return false, err
	}
	if inserted {
		s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	}
	return inserted, nil
}

// RoleOf reports the stored role of email, or ErrNotFound.
func (s *UserService) RoleOf(ctx context.Context, email string) (models.Role, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RoleUnset, ErrNotFound
	}
	if err != nil {
		return models.RoleUnset, err
	}
	return user.Role, nil
}

// Promote sets the role of a user. A missing user is not an error: the
// returned count is simply 0.
func (s *UserService) Promote(ctx context.Context, actor Actor, userID int64, role models.Role) (int64, error) {
	if userID <= 0 || (role != models.RoleAdmin && role != models.RoleInstructor) {
		return 0, ErrInvalidInput
	}

	modified, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return 0, err
	}
	s.logger.Info("user role updated",
		zap.Int64("user_id", userID),
		zap.String("role", string(role)),
		zap.String("by", actor.Email),
		zap.Int64("modified_count", modified),
	)
	return modified, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
