package models

import "time"

// Photo is a guest submission for the shared gallery. GuestName is a free
// text label typed by the uploader; it never references a Guest record.
type Photo struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey"`
	GuestName string    `json:"guest_name" bson:"guest_name" validate:"notblank"`
	Caption   string    `json:"caption" bson:"caption"`
	PhotoURL  string    `json:"photo_url" bson:"photo_url" validate:"notblank"`
	Approved  bool      `json:"approved" bson:"approved" gorm:"index"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" gorm:"index"`
}

func (Photo) TableName() string { return "photos" }

func (p *Photo) RecordID() string { return p.ID }

func (p *Photo) stamp(id string, at time.Time) {
	p.ID = id
	p.CreatedAt = at
}
