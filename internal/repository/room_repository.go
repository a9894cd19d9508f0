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

// RoomRepository handles persistence for rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new repository instance.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns every room ordered by its business key.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, room_id, building, capacity, room_type, created_at, updated_at FROM rooms ORDER BY room_id`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// Create persists a new room. Unique-constraint violations on room_id
// propagate as pq errors for the caller to classify.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, room_id, building, capacity, room_type, created_at, updated_at) VALUES (:id, :room_id, :building, :capacity, :room_type, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update replaces all editable fields by internal id and returns the stored
// row. sql.ErrNoRows is returned when no room matches.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET room_id = $1, building = $2, capacity = $3, room_type = $4, updated_at = $5 WHERE id = $6 RETURNING id, room_id, building, capacity, room_type, created_at, updated_at`
	if err := r.db.GetContext(ctx, room, query, room.RoomID, room.Building, room.Capacity, room.RoomType, room.UpdatedAt, room.ID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a room by internal id. sql.ErrNoRows is returned when no
// row was deleted.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete room rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
