package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-sched/admin-api/internal/models"
	"github.com/campus-sched/admin-api/internal/repository"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
)

const instructorCacheKey = "instructors"

type facultyRepository interface {
	List(ctx context.Context) ([]models.FacultyWithUser, error)
	CreateWithUser(ctx context.Context, user *models.User, faculty *models.Faculty) error
	UpdateProfile(ctx context.Context, faculty *models.Faculty) error
	DeleteWithUser(ctx context.Context, id string) error
	ListInstructors(ctx context.Context) ([]models.Instructor, error)
}

type instructorCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateFacultyRequest captures the account and profile fields for creating
// a faculty member. The password is hashed before storage and the account
// role is always staff.
type CreateFacultyRequest struct {
	Username        string          `json:"username" validate:"required"`
	Password        string          `json:"password" validate:"required,min=6"`
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone"`
	Department      string          `json:"department" validate:"required"`
	MaxHoursPerWeek int             `json:"max_hours_per_week" validate:"gte=0"`
	Availability    json.RawMessage `json:"availability"`
}

// UpdateFacultyRequest modifies only the profile fields of a faculty row;
// the owning account is untouched.
type UpdateFacultyRequest struct {
	Name            string          `json:"name" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone"`
	Department      string          `json:"department" validate:"required"`
	MaxHoursPerWeek int             `json:"max_hours_per_week" validate:"gte=0"`
	Availability    json.RawMessage `json:"availability"`
}

// CreatedFaculty pairs the new account with its profile in create responses.
type CreatedFaculty struct {
	User    models.User    `json:"user"`
	Faculty models.Faculty `json:"faculty"`
}

// FacultyService handles faculty workflows including the composite
// account-plus-profile operations.
type FacultyService struct {
	repo      facultyRepository
	cache     instructorCache
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewFacultyService creates a new faculty service. cache may be nil.
func NewFacultyService(repo facultyRepository, cache instructorCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &FacultyService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns every faculty profile with its owning account fields.
func (s *FacultyService) List(ctx context.Context) ([]models.FacultyWithUser, error) {
	faculty, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("faculty list failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch faculty")
	}
	return faculty, nil
}

// Create provisions a staff account and its faculty profile as one unit of
// work. Duplicate usernames surface as a duplicate-key error.
func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*CreatedFaculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Role:         models.RoleStaff,
		Name:         req.Name,
		Email:        req.Email,
	}
	faculty := &models.Faculty{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
		Availability:    availabilityOrDefault(req.Availability),
	}

	if err := s.repo.CreateWithUser(ctx, user, faculty); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "username already exists")
		}
		s.logger.Error("faculty create failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}

	s.invalidateInstructors(ctx)
	return &CreatedFaculty{User: *user, Faculty: *faculty}, nil
}

// Update modifies only the faculty profile fields.
func (s *FacultyService) Update(ctx context.Context, id string, req UpdateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	faculty := &models.Faculty{
		ID:              id,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Department:      req.Department,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
		Availability:    availabilityOrDefault(req.Availability),
	}

	if err := s.repo.UpdateProfile(ctx, faculty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		s.logger.Error("faculty update failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}

	s.invalidateInstructors(ctx)
	return faculty, nil
}

// Delete removes the faculty profile and its owning account together.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWithUser(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		s.logger.Error("faculty delete failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}

	s.invalidateInstructors(ctx)
	return nil
}

// Instructors returns the staff listing used for instructor selection,
// served from cache when available.
func (s *FacultyService) Instructors(ctx context.Context) ([]models.Instructor, error) {
	if s.cache != nil {
		var cached []models.Instructor
		if err := s.cache.Get(ctx, instructorCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	instructors, err := s.repo.ListInstructors(ctx)
	if err != nil {
		s.logger.Error("instructor list failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch instructors")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, instructorCacheKey, instructors, s.cacheTTL); err != nil {
			s.logger.Warn("instructor cache set failed", zap.Error(err))
		}
	}
	return instructors, nil
}

func (s *FacultyService) invalidateInstructors(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, instructorCacheKey); err != nil {
		s.logger.Warn("instructor cache invalidation failed", zap.Error(err))
	}
}

func availabilityOrDefault(raw json.RawMessage) types.JSONText {
	if len(raw) == 0 {
		return types.JSONText("{}")
	}
	return types.JSONText(raw)
}
