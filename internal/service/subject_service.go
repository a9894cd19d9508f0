package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-sched/admin-api/internal/models"
	"github.com/campus-sched/admin-api/internal/repository"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context) ([]models.SubjectWithInstructor, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectRequest captures the editable fields of a subject for create and
// update. InstructorID is optional and may reference a staff user.
type SubjectRequest struct {
	CourseCode    string  `json:"course_code" validate:"required"`
	CourseName    string  `json:"course_name" validate:"required"`
	Semester      string  `json:"semester" validate:"required"`
	Credits       int     `json:"credits" validate:"gte=0"`
	Prerequisites string  `json:"prerequisites"`
	InstructorID  *string `json:"instructor_id"`
}

// SubjectService handles subject workflows.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns every subject with instructor names resolved, ordered by
// course code.
func (s *SubjectService) List(ctx context.Context) ([]models.SubjectWithInstructor, error) {
	subjects, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("subject list failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subjects")
	}
	return subjects, nil
}

// Create adds a new subject; duplicate course codes surface as a
// duplicate-key error.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := s.fromRequest("", req)
	if err := s.repo.Create(ctx, subject); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "course code already exists")
		}
		s.logger.Error("subject create failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// Update replaces all editable fields of a subject by internal id.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := s.fromRequest(id, req)
	if err := s.repo.Update(ctx, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "course code already exists")
		}
		s.logger.Error("subject update failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject by internal id.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		s.logger.Error("subject delete failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	return nil
}

func (s *SubjectService) fromRequest(id string, req SubjectRequest) *models.Subject {
	instructorID := req.InstructorID
	if instructorID != nil && strings.TrimSpace(*instructorID) == "" {
		instructorID = nil
	}
	return &models.Subject{
		ID:            id,
		CourseCode:    strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		CourseName:    req.CourseName,
		Semester:      req.Semester,
		Credits:       req.Credits,
		Prerequisites: req.Prerequisites,
		InstructorID:  instructorID,
	}
}
