package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
	"go.uber.org/zap"
)

const (
	topClassesLimit     = 6
	topInstructorsLimit = 6
)

type classStore interface {
	List(ctx context.Context, filter repository.ClassListFilter) ([]models.Class, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	TopClasses(ctx context.Context, limit int) ([]models.Class, error)
	Create(ctx context.Context, input repository.CreateClassInput) (*models.Class, error)
	UpdateFields(ctx context.Context, id int64, input repository.UpdateClassInput, ownerEmail string) (int64, error)
	UpdateStatusIfPending(ctx context.Context, id int64, status models.ClassStatus) (int64, error)
	UpdateFeedback(ctx context.Context, id int64, feedback string) (int64, error)
	InstructorRankings(ctx context.Context, filter repository.InstructorRankingFilter) ([]models.InstructorRanking, error)
}

type sliderLister interface {
	List(ctx context.Context) ([]models.Slider, error)
}

type CreateClassInput struct {
	Name            string
	Image           *string
	InstructorName  string
	InstructorEmail string
	Price           float64
	AvailableSeats  int
}

type ClassService struct {
	classes classStore
	sliders sliderLister
	logger  *zap.Logger
}

func NewClassService(classes classStore, sliders sliderLister, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, sliders: sliders, logger: logger}
}

func (s *ClassService) Sliders(ctx context.Context) ([]models.Slider, error) {
	return s.sliders.List(ctx)
}

func (s *ClassService) List(ctx context.Context, status string) ([]models.Class, error) {
	switch models.ClassStatus(status) {
	case "", models.ClassStatusPending, models.ClassStatusApproved, models.ClassStatusDenied:
	default:
		return nil, ErrInvalidInput
	}
	return s.classes.List(ctx, repository.ClassListFilter{Status: status})
}

func (s *ClassService) TopClasses(ctx context.Context) ([]models.Class, error) {
	return s.classes.TopClasses(ctx, topClassesLimit)
}

// Instructors lists every instructor with their class count, ordered by name.
func (s *ClassService) Instructors(ctx context.Context) ([]models.InstructorRanking, error) {
	return s.classes.InstructorRankings(ctx, repository.InstructorRankingFilter{})
}

// TopInstructors lists the most booked instructors.
func (s *ClassService) TopInstructors(ctx context.Context) ([]models.InstructorRanking, error) {
	return s.classes.InstructorRankings(ctx, repository.InstructorRankingFilter{
		OnlyBooked: true,
		Limit:      topInstructorsLimit,
	})
}

func (s *ClassService) ListByInstructor(ctx context.Context, actor Actor, email string) ([]models.Class, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}
	if !actor.IsAdmin() && !actor.Owns(email) {
		return nil, ErrForbidden
	}
	return s.classes.List(ctx, repository.ClassListFilter{InstructorEmail: email})
}

// Create adds a class in pending status. Instructors always create classes
// under their own email.
func (s *ClassService) Create(ctx context.Context, actor Actor, input CreateClassInput) (*models.Class, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.InstructorName = strings.TrimSpace(input.InstructorName)
	input.InstructorEmail = normalizeEmail(input.InstructorEmail)
	if actor.Role == models.RoleInstructor {
		input.InstructorEmail = actor.Email
	}
	if input.Name == "" || input.InstructorName == "" || input.InstructorEmail == "" {
		return nil, ErrInvalidInput
	}
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 || input.AvailableSeats < 0 {
		return nil, ErrInvalidInput
	}

	class, err := s.classes.Create(ctx, repository.CreateClassInput{
		Name:            input.Name,
		Image:           input.Image,
		InstructorName:  input.InstructorName,
		InstructorEmail: input.InstructorEmail,
		Price:           input.Price,
		AvailableSeats:  input.AvailableSeats,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("class created",
		zap.Int64("class_id", class.ID),
		zap.String("instructor_email", class.InstructorEmail),
		zap.Int("available_seats", class.AvailableSeats),
	)
	return class, nil
}

// Update changes descriptive fields only; seat counters and status have
// dedicated operations.
func (s *ClassService) Update(ctx context.Context, actor Actor, classID int64, input repository.UpdateClassInput) (int64, error) {
	if classID <= 0 || input.Empty() {
		return 0, ErrInvalidInput
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return 0, ErrInvalidInput
	}
	if input.Price != nil && (math.IsNaN(*input.Price) || math.IsInf(*input.Price, 0) || *input.Price < 0) {
		return 0, ErrInvalidInput
	}

	owner := ""
	if !actor.IsAdmin() {
		owner = actor.Email
		class, err := s.classes.GetByID(ctx, classID)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		if err != nil {
			return 0, err
		}
		if !actor.Owns(class.InstructorEmail) {
			return 0, ErrForbidden
		}
	}
	return s.classes.UpdateFields(ctx, classID, input, owner)
}

func (s *ClassService) Approve(ctx context.Context, actor Actor, classID int64) (int64, error) {
	return s.decide(ctx, actor, classID, models.ClassStatusApproved)
}

func (s *ClassService) Deny(ctx context.Context, actor Actor, classID int64) (int64, error) {
	return s.decide(ctx, actor, classID, models.ClassStatusDenied)
}

func (s *ClassService) decide(ctx context.Context, actor Actor, classID int64, status models.ClassStatus) (int64, error) {
	if classID <= 0 {
		return 0, ErrInvalidInput
	}
	modified, err := s.classes.UpdateStatusIfPending(ctx, classID, status)
	if err != nil {
		return 0, err
	}
	s.logger.Info("class reviewed",
		zap.Int64("class_id", classID),
		zap.String("status", string(status)),
		zap.String("by", actor.Email),
		zap.Int64("modified_count", modified),
	)
	return modified, nil
}

func (s *ClassService) Feedback(ctx context.Context, classID int64, feedback string) (int64, error) {
	feedback = strings.TrimSpace(feedback)
	if classID <= 0 || feedback == "" {
		return 0, ErrInvalidInput
	}
	return s.classes.UpdateFeedback(ctx, classID, feedback)
}
