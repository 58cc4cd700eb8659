package models

import "time"

type ClassStatus string

const (
	ClassStatusPending  ClassStatus = "pending"
	ClassStatusApproved ClassStatus = "approved"
	ClassStatusDenied   ClassStatus = "denied"
)

type Class struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Image           *string     `json:"image"`
	InstructorName  string      `json:"instructor_name"`
	InstructorEmail string      `json:"instructor_email"`
	Price           float64     `json:"price"`
	Status          ClassStatus `json:"status"`
	AvailableSeats  int         `json:"available_seats"`
	SeatBookings    int         `json:"seat_bookings"`
	Feedback        *string     `json:"feedback"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SeatInventory is the pair of counters the seat ledger owns for a class.
type SeatInventory struct {
	ClassID        int64 `json:"class_id"`
	AvailableSeats int   `json:"available_seats"`
	SeatBookings   int   `json:"seat_bookings"`
}

type InstructorRanking struct {
	InstructorEmail string  `json:"email"`
	InstructorName  string  `json:"instructor_name"`
	PhotoURL        *string `json:"photo_url"`
	TotalClasses    int     `json:"total_classes"`
	SeatBookings    int     `json:"seat_bookings"`
}

type Slider struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
}
