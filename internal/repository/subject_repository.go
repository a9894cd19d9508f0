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

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns every subject with its instructor name resolved. The left
// join keeps subjects with no or dangling instructor references in the
// result with a null instructor name.
func (r *SubjectRepository) List(ctx context.Context) ([]models.SubjectWithInstructor, error) {
	const query = `SELECT s.id, s.course_code, s.course_name, s.semester, s.credits, s.prerequisites, s.instructor_id, s.created_at, s.updated_at, u.name AS instructor_name
		FROM subjects s
		LEFT JOIN users u ON s.instructor_id = u.id
		ORDER BY s.course_code`
	var subjects []models.SubjectWithInstructor
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, course_code, course_name, semester, credits, prerequisites, instructor_id, created_at, updated_at) VALUES (:id, :course_code, :course_name, :semester, :credits, :prerequisites, :instructor_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update replaces all editable fields by internal id and returns the stored
// row. sql.ErrNoRows is returned when no subject matches.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET course_code = $1, course_name = $2, semester = $3, credits = $4, prerequisites = $5, instructor_id = $6, updated_at = $7 WHERE id = $8 RETURNING id, course_code, course_name, semester, credits, prerequisites, instructor_id, created_at, updated_at`
	if err := r.db.GetContext(ctx, subject, query, subject.CourseCode, subject.CourseName, subject.Semester, subject.Credits, subject.Prerequisites, subject.InstructorID, subject.UpdatedAt, subject.ID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject by internal id. sql.ErrNoRows is returned when
// no row was deleted.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subject rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
