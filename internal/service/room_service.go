package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-sched/admin-api/internal/models"
	"github.com/campus-sched/admin-api/internal/repository"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
	"github.com/campus-sched/admin-api/pkg/export"
)

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

// RoomRequest captures the editable fields of a room for create and update.
type RoomRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	Building string `json:"building" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=0"`
	RoomType string `json:"room_type" validate:"required"`
}

// RoomService handles room workflows.
type RoomService struct {
	repo      roomRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService creates a new room service.
func NewRoomService(repo roomRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, validator: validate, logger: logger}
}

// List returns every room ordered by room_id.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("room list failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch rooms")
	}
	return rooms, nil
}

// Create adds a new room; duplicate room ids surface as a duplicate-key error.
func (s *RoomService) Create(ctx context.Context, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room := &models.Room{
		RoomID:   strings.TrimSpace(req.RoomID),
		Building: req.Building,
		Capacity: req.Capacity,
		RoomType: req.RoomType,
	}

	if err := s.repo.Create(ctx, room); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "room id already exists")
		}
		s.logger.Error("room create failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// Update replaces all editable fields of a room by internal id.
func (s *RoomService) Update(ctx context.Context, id string, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room := &models.Room{
		ID:       id,
		RoomID:   strings.TrimSpace(req.RoomID),
		Building: req.Building,
		Capacity: req.Capacity,
		RoomType: req.RoomType,
	}

	if err := s.repo.Update(ctx, room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "room id already exists")
		}
		s.logger.Error("room update failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// Delete removes a room by internal id.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		s.logger.Error("room delete failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

// Export renders the room inventory in the requested format.
func (s *RoomService) Export(ctx context.Context, format string) ([]byte, string, error) {
	rooms, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Title:   "Room Inventory",
		Headers: []string{"Room ID", "Building", "Capacity", "Type"},
	}
	for _, room := range rooms {
		data.Rows = append(data.Rows, map[string]string{
			"Room ID":  room.RoomID,
			"Building": room.Building,
			"Capacity": strconv.Itoa(room.Capacity),
			"Type":     room.RoomType,
		})
	}

	switch format {
	case "csv":
		payload, err := export.CSV(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "", "pdf":
		payload, err := export.PDF(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
