package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-sched/admin-api/internal/models"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
)

type mockFacultyRepo struct {
	faculty        []models.FacultyWithUser
	instructors    []models.Instructor
	createErr      error
	updateErr      error
	deleteErr      error
	listErr        error
	instructorsErr error
	createdUser    *models.User
	createdFaculty *models.Faculty
	deletedID      string
	instructorHits int
}

func (m *mockFacultyRepo) List(ctx context.Context) ([]models.FacultyWithUser, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.faculty, nil
}

func (m *mockFacultyRepo) CreateWithUser(ctx context.Context, user *models.User, faculty *models.Faculty) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-generated"
	faculty.ID = "f-generated"
	faculty.UserID = user.ID
	m.createdUser = user
	m.createdFaculty = faculty
	return nil
}

func (m *mockFacultyRepo) UpdateProfile(ctx context.Context, faculty *models.Faculty) error {
	return m.updateErr
}

func (m *mockFacultyRepo) DeleteWithUser(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func (m *mockFacultyRepo) ListInstructors(ctx context.Context) ([]models.Instructor, error) {
	if m.instructorsErr != nil {
		return nil, m.instructorsErr
	}
	m.instructorHits++
	return m.instructors, nil
}

type memoryCache struct {
	entries map[string][]byte
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = payload
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	c.deletes++
	return nil
}

func newFacultyService(repo *mockFacultyRepo, cache instructorCache) *FacultyService {
	return NewFacultyService(repo, cache, validator.New(), zap.NewNop(), time.Minute)
}

func validCreateRequest() CreateFacultyRequest {
	return CreateFacultyRequest{
		Username:        "chen",
		Password:        "secret123",
		Name:            "Dr. Chen",
		Email:           "chen@campus.edu",
		Phone:           "555-0101",
		Department:      "Mathematics",
		MaxHoursPerWeek: 20,
		Availability:    json.RawMessage(`{"mon":["09:00-12:00"]}`),
	}
}

func TestFacultyServiceCreate(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := newFacultyService(repo, nil)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, created.User.Role)
	assert.Equal(t, "u-generated", created.Faculty.UserID)
	assert.JSONEq(t, `{"mon":["09:00-12:00"]}`, string(created.Faculty.Availability))

	require.NotNil(t, repo.createdUser)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.createdUser.PasswordHash), []byte("secret123")))
	assert.NotEqual(t, "secret123", repo.createdUser.PasswordHash)
}

func TestFacultyServiceCreateDefaultsAvailability(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := newFacultyService(repo, nil)

	req := validCreateRequest()
	req.Availability = nil
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(created.Faculty.Availability))
}

func TestFacultyServiceCreateShortPassword(t *testing.T) {
	svc := newFacultyService(&mockFacultyRepo{}, nil)

	req := validCreateRequest()
	req.Password = "abc"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceCreateDuplicateUsername(t *testing.T) {
	repo := &mockFacultyRepo{createErr: &pq.Error{Code: "23505", Constraint: "users_username_key"}}
	svc := newFacultyService(repo, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErr.Code)
	assert.Equal(t, "username already exists", appErr.Message)
}

func TestFacultyServiceUpdateNotFound(t *testing.T) {
	repo := &mockFacultyRepo{updateErr: sql.ErrNoRows}
	svc := newFacultyService(repo, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateFacultyRequest{Name: "Dr. Chen", Email: "chen@campus.edu", Department: "Mathematics"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceDelete(t *testing.T) {
	repo := &mockFacultyRepo{}
	svc := newFacultyService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "f1"))
	assert.Equal(t, "f1", repo.deletedID)

	repo.deleteErr = sql.ErrNoRows
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceInstructorsCached(t *testing.T) {
	repo := &mockFacultyRepo{instructors: []models.Instructor{{ID: "u1", Name: "Dr. Chen", Department: "Mathematics"}}}
	cache := newMemoryCache()
	svc := newFacultyService(repo, cache)

	first, err := svc.Instructors(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Instructors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.instructorHits)
}

func TestFacultyServiceCreateInvalidatesInstructorCache(t *testing.T) {
	repo := &mockFacultyRepo{instructors: []models.Instructor{{ID: "u1", Name: "Dr. Chen", Department: "Mathematics"}}}
	cache := newMemoryCache()
	svc := newFacultyService(repo, cache)

	_, err := svc.Instructors(context.Background())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)

	_, err = svc.Instructors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.instructorHits)
}

func TestFacultyServiceInstructorsWithoutCache(t *testing.T) {
	repo := &mockFacultyRepo{instructors: []models.Instructor{{ID: "u1", Name: "Dr. Chen", Department: "Mathematics"}}}
	svc := newFacultyService(repo, nil)

	instructors, err := svc.Instructors(context.Background())
	require.NoError(t, err)
	assert.Len(t, instructors, 1)
}
