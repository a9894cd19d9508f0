package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Faculty represents a staff member's profile. Every faculty row owns exactly
// one user account with role staff; the pair is created and deleted together.
// Availability is an opaque serialized schedule payload.
type Faculty struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	Name            string         `db:"name" json:"name"`
	Email           string         `db:"email" json:"email"`
	Phone           string         `db:"phone" json:"phone"`
	Department      string         `db:"department" json:"department"`
	MaxHoursPerWeek int            `db:"max_hours_per_week" json:"max_hours_per_week"`
	Availability    types.JSONText `db:"availability" json:"availability"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// FacultyWithUser is a Faculty joined with fields from the owning account.
type FacultyWithUser struct {
	Faculty
	Username  string `db:"username" json:"username"`
	UserEmail string `db:"user_email" json:"user_email"`
}

// Instructor is the reduced staff view used to populate instructor
// selection inputs.
type Instructor struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Department string `db:"department" json:"department"`
}
