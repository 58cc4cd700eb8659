package models

import "time"

// Selection is a student's intent to take a class before paying for it.
type Selection struct {
	ID              int64     `json:"id"`
	ClassID         int64     `json:"class_id"`
	StudentEmail    string    `json:"student_email"`
	Name            string    `json:"name"`
	Image           *string   `json:"image"`
	InstructorName  string    `json:"instructor_name"`
	InstructorEmail string    `json:"instructor_email"`
	Price           float64   `json:"price"`
	Enrolled        bool      `json:"enrolled"`
	CreatedAt       time.Time `json:"created_at"`
}
