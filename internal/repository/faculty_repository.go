package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-sched/admin-api/internal/models"
)

// FacultyRepository manages persistence for faculty profiles and their
// owning user accounts. The composite operations run in a single
// transaction so no user row can exist without its faculty row or vice
// versa.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns every faculty profile joined with its owning account,
// ordered by name.
func (r *FacultyRepository) List(ctx context.Context) ([]models.FacultyWithUser, error) {
	const query = `SELECT f.id, f.user_id, f.name, f.email, f.phone, f.department, f.max_hours_per_week, f.availability, f.created_at, f.updated_at, u.username, u.email AS user_email
		FROM faculty f
		JOIN users u ON f.user_id = u.id
		ORDER BY f.name`
	var faculty []models.FacultyWithUser
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, nil
}

// CreateWithUser inserts the user account and the faculty profile as one
// unit of work. On any failure neither row persists. Unique-constraint
// violations on username propagate as pq errors.
func (r *FacultyRepository) CreateWithUser(ctx context.Context, user *models.User, faculty *models.Faculty) (err error) {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	faculty.UserID = user.ID
	faculty.CreatedAt = now
	faculty.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create faculty tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, username, password_hash, role, name, email, created_at, updated_at) VALUES (:id, :username, :password_hash, :role, :name, :email, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create faculty user: %w", err)
	}

	const facultyQuery = `INSERT INTO faculty (id, user_id, name, email, phone, department, max_hours_per_week, availability, created_at, updated_at) VALUES (:id, :user_id, :name, :email, :phone, :department, :max_hours_per_week, :availability, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, facultyQuery, faculty); err != nil {
		return fmt.Errorf("create faculty profile: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create faculty tx: %w", err)
	}
	return nil
}

// UpdateProfile updates only the profile fields of a faculty row, leaving
// the owning user account untouched. sql.ErrNoRows is returned when no
// faculty matches.
func (r *FacultyRepository) UpdateProfile(ctx context.Context, faculty *models.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET name = $1, email = $2, phone = $3, department = $4, max_hours_per_week = $5, availability = $6, updated_at = $7 WHERE id = $8 RETURNING id, user_id, name, email, phone, department, max_hours_per_week, availability, created_at, updated_at`
	if err := r.db.GetContext(ctx, faculty, query, faculty.Name, faculty.Email, faculty.Phone, faculty.Department, faculty.MaxHoursPerWeek, faculty.Availability, faculty.UpdatedAt, faculty.ID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// DeleteWithUser removes the faculty row and its owning user account in one
// transaction. Subjects taught by the account keep their rows with the
// instructor reference nulled out. sql.ErrNoRows is returned when the
// faculty id is unknown.
func (r *FacultyRepository) DeleteWithUser(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete faculty tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var userID string
	if err = tx.GetContext(ctx, &userID, `SELECT user_id FROM faculty WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("resolve faculty owner: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE subjects SET instructor_id = NULL WHERE instructor_id = $1`, userID); err != nil {
		return fmt.Errorf("detach subjects from instructor: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete faculty profile: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete faculty user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete faculty tx: %w", err)
	}
	return nil
}

// ListInstructors returns every staff account joined with its faculty
// profile, ordered by name.
func (r *FacultyRepository) ListInstructors(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT u.id, u.name, f.department
		FROM users u
		JOIN faculty f ON u.id = f.user_id
		WHERE u.role = 'staff'
		ORDER BY u.name`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}
