package models

import "time"

// Subject represents a course offering. InstructorID is a weak reference to
// a staff user and may be null.
type Subject struct {
	ID            string    `db:"id" json:"id"`
	CourseCode    string    `db:"course_code" json:"course_code"`
	CourseName    string    `db:"course_name" json:"course_name"`
	Semester      string    `db:"semester" json:"semester"`
	Credits       int       `db:"credits" json:"credits"`
	Prerequisites string    `db:"prerequisites" json:"prerequisites"`
	InstructorID  *string   `db:"instructor_id" json:"instructor_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectWithInstructor is a Subject joined with the instructor's name.
// InstructorName is nil when the subject has no (or a dangling) instructor
// reference.
type SubjectWithInstructor struct {
	Subject
	InstructorName *string `db:"instructor_name" json:"instructor_name"`
}
