package models

import "time"

// TimelineItem is one milestone on the event timeline. Items display by
// ascending Order; duplicates are allowed and fall back to insertion order.
type TimelineItem struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey"`
	Title       string    `json:"title" bson:"title" validate:"notblank"`
	Description string    `json:"description" bson:"description"`
	Date        string    `json:"date" bson:"date" validate:"notblank"`
	AgeMonths   int       `json:"age_months" bson:"age_months" validate:"gte=0"`
	PhotoURL    string    `json:"photo_url" bson:"photo_url"`
	Order       int       `json:"order" bson:"order" gorm:"column:order;index"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

func (TimelineItem) TableName() string { return "timeline_items" }

func (t *TimelineItem) RecordID() string { return t.ID }

func (t *TimelineItem) stamp(id string, at time.Time) {
	t.ID = id
	t.CreatedAt = at
}
