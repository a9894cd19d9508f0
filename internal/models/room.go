package models

import "time"

// Room represents a physical room. RoomID is the unique business key
// (e.g. "R101"); ID is the internal identifier.
type Room struct {
	ID        string    `db:"id" json:"id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	Building  string    `db:"building" json:"building"`
	Capacity  int       `db:"capacity" json:"capacity"`
	RoomType  string    `db:"room_type" json:"room_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
