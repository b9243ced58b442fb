package models

import "time"

const (
	DefaultAdultsCount   = 1
	DefaultChildrenCount = 0
)

// Guest is one RSVP response. Head counts only matter when WillAttend is set.
type Guest struct {
	ID            string    `json:"id" bson:"_id" gorm:"primaryKey"`
	Name          string    `json:"name" bson:"name" validate:"notblank"`
	Email         string    `json:"email" bson:"email"`
	Phone         string    `json:"phone" bson:"phone"`
	WillAttend    bool      `json:"will_attend" bson:"will_attend"`
	AdultsCount   int       `json:"adults_count" bson:"adults_count" validate:"gte=0"`
	ChildrenCount int       `json:"children_count" bson:"children_count" validate:"gte=0"`
	Message       string    `json:"message" bson:"message"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" gorm:"index"`
}

func (Guest) TableName() string { return "guests" }

func (g *Guest) RecordID() string { return g.ID }

func (g *Guest) stamp(id string, at time.Time) {
	g.ID = id
	g.CreatedAt = at
}
