package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type CreateClassInput struct {
	Name            string
	Image           *string
	InstructorName  string
	InstructorEmail string
	Price           float64
	AvailableSeats  int
}

type UpdateClassInput struct {
	Name  *string
	Image *string
	Price *float64
}

func (in UpdateClassInput) Empty() bool {
	return in.Name == nil && in.Image == nil && in.Price == nil
}

type ClassListFilter struct {
	Status          string
	InstructorEmail string
	Limit           int
}

type InstructorRankingFilter struct {
	OnlyBooked bool
	Limit      int
}

type ClassRepository struct {
	db DBTX
}

func NewClassRepository(db DBTX) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, name, image, instructor_name, instructor_email, price, status,
	available_seats, seat_bookings, feedback, created_at, updated_at`

func scanClass(row pgx.Row) (*models.Class, error) {
	var (
		class  models.Class
		status string
	)
	if err := row.Scan(
		&class.ID,
		&class.Name,
		&class.Image,
		&class.InstructorName,
		&class.InstructorEmail,
		&class.Price,
		&status,
		&class.AvailableSeats,
		&class.SeatBookings,
		&class.Feedback,
		&class.CreatedAt,
		&class.UpdatedAt,
	); err != nil {
		return nil, err
	}
	class.Status = models.ClassStatus(status)
	return &class, nil
}

func collectClasses(rows pgx.Rows) ([]models.Class, error) {
	defer rows.Close()

	classes := make([]models.Class, 0)
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *class)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *ClassRepository) Create(ctx context.Context, input CreateClassInput) (*models.Class, error) {
	query := `
		INSERT INTO classes (name, image, instructor_name, instructor_email, price, status, available_seats, seat_bookings)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6, 0)
		RETURNING ` + classColumns
	return scanClass(r.db.QueryRow(
		ctx,
		query,
		input.Name,
		input.Image,
		input.InstructorName,
		input.InstructorEmail,
		input.Price,
		input.AvailableSeats,
	))
}

func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`
	return scanClass(r.db.QueryRow(ctx, query, id))
}

func (r *ClassRepository) List(ctx context.Context, filter ClassListFilter) ([]models.Class, error) {
	args := []any{}
	whereParts := []string{}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if email := strings.TrimSpace(filter.InstructorEmail); email != "" {
		args = append(args, email)
		whereParts = append(whereParts, fmt.Sprintf("instructor_email = $%d", len(args)))
	}

	query := `SELECT ` + classColumns + ` FROM classes`
	if len(whereParts) > 0 {
		query += " WHERE " + strings.Join(whereParts, " AND ")
	}
	query += " ORDER BY id ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

// TopClasses returns approved classes ordered by seat bookings.
func (r *ClassRepository) TopClasses(ctx context.Context, limit int) ([]models.Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE status = 'approved'
		ORDER BY seat_bookings DESC, id ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectClasses(rows)
}

// UpdateFields applies a partial update. A non-empty ownerEmail restricts the
// update to classes taught by that instructor.
func (r *ClassRepository) UpdateFields(
	ctx context.Context,
	id int64,
	input UpdateClassInput,
	ownerEmail string,
) (int64, error) {
	if input.Empty() {
		return 0, nil
	}

	args := []any{id}
	setParts := []string{"updated_at = NOW()"}
	if input.Name != nil {
		args = append(args, *input.Name)
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)))
	}
	if input.Image != nil {
		args = append(args, *input.Image)
		setParts = append(setParts, fmt.Sprintf("image = $%d", len(args)))
	}
	if input.Price != nil {
		args = append(args, *input.Price)
		setParts = append(setParts, fmt.Sprintf("price = $%d", len(args)))
	}

	query := fmt.Sprintf("UPDATE classes SET %s WHERE id = $1", strings.Join(setParts, ", "))
	if ownerEmail != "" {
		args = append(args, ownerEmail)
		query += fmt.Sprintf(" AND instructor_email = $%d", len(args))
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateStatusIfPending moves a pending class to a terminal status.
func (r *ClassRepository) UpdateStatusIfPending(ctx context.Context, id int64, status models.ClassStatus) (int64, error) {
	query := `
		UPDATE classes
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id, string(status))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ClassRepository) UpdateFeedback(ctx context.Context, id int64, feedback string) (int64, error) {
	query := `
		UPDATE classes
		SET feedback = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, feedback)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReserveSeat moves one seat from available to booked in a single statement.
// It returns pgx.ErrNoRows when the class is missing or has no seats left.
func (r *ClassRepository) ReserveSeat(ctx context.Context, id int64) (*models.SeatInventory, error) {
	query := `
		UPDATE classes
		SET available_seats = available_seats - 1,
			seat_bookings = seat_bookings + 1,
			updated_at = NOW()
		WHERE id = $1 AND available_seats > 0
		RETURNING id, available_seats, seat_bookings
	`
	var inventory models.SeatInventory
	err := r.db.QueryRow(ctx, query, id).
		Scan(&inventory.ClassID, &inventory.AvailableSeats, &inventory.SeatBookings)
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *ClassRepository) GetInventory(ctx context.Context, id int64) (*models.SeatInventory, error) {
	query := `SELECT id, available_seats, seat_bookings FROM classes WHERE id = $1`
	var inventory models.SeatInventory
	err := r.db.QueryRow(ctx, query, id).
		Scan(&inventory.ClassID, &inventory.AvailableSeats, &inventory.SeatBookings)
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

func (r *ClassRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM classes WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// InstructorRankings groups classes by instructor. With OnlyBooked it keeps
// instructors that have at least one booking and orders by bookings,
// otherwise it orders by instructor name.
func (r *ClassRepository) InstructorRankings(
	ctx context.Context,
	filter InstructorRankingFilter,
) ([]models.InstructorRanking, error) {
	args := []any{}
	where := ""
	order := "instructor_name ASC"
	if filter.OnlyBooked {
		where = "WHERE c.seat_bookings > 0"
		order = "seat_bookings DESC, instructor_name ASC"
	}

	query := fmt.Sprintf(`
		SELECT
			c.instructor_email,
			MIN(c.instructor_name) AS instructor_name,
			MIN(u.photo_url) AS photo_url,
			COUNT(*) AS total_classes,
			COALESCE(SUM(c.seat_bookings), 0) AS seat_bookings
		FROM classes c
		LEFT JOIN users u ON u.email = c.instructor_email
		%s
		GROUP BY c.instructor_email
		ORDER BY %s
	`, where, order)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rankings := make([]models.InstructorRanking, 0)
	for rows.Next() {
		var ranking models.InstructorRanking
		if err := rows.Scan(
			&ranking.InstructorEmail,
			&ranking.InstructorName,
			&ranking.PhotoURL,
			&ranking.TotalClasses,
			&ranking.SeatBookings,
		); err != nil {
			return nil, err
		}
		rankings = append(rankings, ranking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rankings, nil
}
