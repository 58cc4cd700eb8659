package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
	"go.uber.org/zap"
)

type selectionStore interface {
	Create(ctx context.Context, input repository.CreateSelectionInput) (*models.Selection, error)
	GetByID(ctx context.Context, id int64) (*models.Selection, error)
	List(ctx context.Context) ([]models.Selection, error)
	ListByStudent(ctx context.Context, email string) ([]models.Selection, error)
	DeleteIfNotEnrolled(ctx context.Context, id int64, studentEmail string) (int64, error)
}

type classReader interface {
	GetByID(ctx context.Context, id int64) (*models.Class, error)
}

type SelectionService struct {
	selections selectionStore
	classes    classReader
	logger     *zap.Logger
}

func NewSelectionService(selections selectionStore, classes classReader, logger *zap.Logger) *SelectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{selections: selections, classes: classes, logger: logger}
}

// Select records a student's intent to take an approved class. The class
// details are copied from the class record rather than trusted from the
// request.
func (s *SelectionService) Select(ctx context.Context, actor Actor, classID int64) (*models.Selection, error) {
	if classID <= 0 {
		return nil, ErrInvalidInput
	}

	class, err := s.classes.GetByID(ctx, classID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	if class.Status != models.ClassStatusApproved {
		return nil, ErrInvalidInput
	}

	selection, err := s.selections.Create(ctx, repository.CreateSelectionInput{
		ClassID:         class.ID,
		StudentEmail:    actor.Email,
		Name:            class.Name,
		Image:           class.Image,
		InstructorName:  class.InstructorName,
		InstructorEmail: class.InstructorEmail,
		Price:           class.Price,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("class selected",
		zap.Int64("selection_id", selection.ID),
		zap.Int64("class_id", class.ID),
		zap.String("email", actor.Email),
	)
	return selection, nil
}

func (s *SelectionService) List(ctx context.Context) ([]models.Selection, error) {
	return s.selections.List(ctx)
}

func (s *SelectionService) ListByStudent(ctx context.Context, actor Actor, email string) ([]models.Selection, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}
	if !actor.IsAdmin() && !actor.Owns(email) {
		return nil, ErrForbidden
	}
	return s.selections.ListByStudent(ctx, email)
}

func (s *SelectionService) Get(ctx context.Context, actor Actor, id int64) (*models.Selection, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	selection, err := s.selections.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(selection.StudentEmail) {
		return nil, ErrForbidden
	}
	return selection, nil
}

// Delete removes a selection that has not been enrolled. Students can only
// delete their own selections.
func (s *SelectionService) Delete(ctx context.Context, actor Actor, id int64) (int64, error) {
	if id <= 0 {
		return 0, ErrInvalidInput
	}
	owner := ""
	if !actor.IsAdmin() {
		owner = actor.Email
	}
	deleted, err := s.selections.DeleteIfNotEnrolled(ctx, id, owner)
	if err != nil {
		return 0, err
	}
	s.logger.Info("selection deleted",
		zap.Int64("selection_id", id),
		zap.String("by", actor.Email),
		zap.Int64("deleted_count", deleted),
	)
	return deleted, nil
}
