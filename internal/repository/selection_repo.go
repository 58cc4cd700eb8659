package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type CreateSelectionInput struct {
	ClassID         int64
	StudentEmail    string
	Name            string
	Image           *string
	InstructorName  string
	InstructorEmail string
	Price           float64
}

type SelectionRepository struct {
	db DBTX
}

func NewSelectionRepository(db DBTX) *SelectionRepository {
	return &SelectionRepository{db: db}
}

const selectionColumns = `id, class_id, student_email, name, image, instructor_name, instructor_email,
	price, enrolled, created_at`

func scanSelection(row pgx.Row) (*models.Selection, error) {
	var selection models.Selection
	if err := row.Scan(
		&selection.ID,
		&selection.ClassID,
		&selection.StudentEmail,
		&selection.Name,
		&selection.Image,
		&selection.InstructorName,
		&selection.InstructorEmail,
		&selection.Price,
		&selection.Enrolled,
		&selection.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &selection, nil
}

func collectSelections(rows pgx.Rows) ([]models.Selection, error) {
	defer rows.Close()

	selections := make([]models.Selection, 0)
	for rows.Next() {
		selection, err := scanSelection(rows)
		if err != nil {
			return nil, err
		}
		selections = append(selections, *selection)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return selections, nil
}

func (r *SelectionRepository) Create(ctx context.Context, input CreateSelectionInput) (*models.Selection, error) {
	query := `
		INSERT INTO selected_classes (class_id, student_email, name, image, instructor_name, instructor_email, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + selectionColumns
	return scanSelection(r.db.QueryRow(
		ctx,
		query,
		input.ClassID,
		input.StudentEmail,
		input.Name,
		input.Image,
		input.InstructorName,
		input.InstructorEmail,
		input.Price,
	))
}

func (r *SelectionRepository) GetByID(ctx context.Context, id int64) (*models.Selection, error) {
	query := `SELECT ` + selectionColumns + ` FROM selected_classes WHERE id = $1`
	return scanSelection(r.db.QueryRow(ctx, query, id))
}

func (r *SelectionRepository) List(ctx context.Context) ([]models.Selection, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectionColumns+` FROM selected_classes ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return collectSelections(rows)
}

func (r *SelectionRepository) ListByStudent(ctx context.Context, email string) ([]models.Selection, error) {
	query := `
		SELECT ` + selectionColumns + `
		FROM selected_classes
		WHERE student_email = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	return collectSelections(rows)
}

// MarkEnrolled flips enrolled to true. It returns 0 when the selection is
// missing or already enrolled.
func (r *SelectionRepository) MarkEnrolled(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE selected_classes SET enrolled = TRUE WHERE id = $1 AND enrolled = FALSE`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteIfNotEnrolled removes a selection that has not been paid for yet. A
// non-empty studentEmail restricts the delete to that student's selections.
func (r *SelectionRepository) DeleteIfNotEnrolled(ctx context.Context, id int64, studentEmail string) (int64, error) {
	query := `DELETE FROM selected_classes WHERE id = $1 AND enrolled = FALSE`
	args := []any{id}
	if studentEmail != "" {
		query += ` AND student_email = $2`
		args = append(args, studentEmail)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
