package models

import "time"

// PartyInfo holds the event logistics. At most one record exists; before the
// admin fills it in there are none.
type PartyInfo struct {
	ID             string    `json:"id" bson:"_id" gorm:"primaryKey"`
	EventName      string    `json:"event_name" bson:"event_name" validate:"notblank"`
	Date           string    `json:"date" bson:"date" validate:"notblank"` // YYYY-MM-DD
	Time           string    `json:"time" bson:"time" validate:"notblank"`
	Address        string    `json:"address" bson:"address" validate:"notblank"`
	LocationName   string    `json:"location_name" bson:"location_name"`
	AdditionalInfo string    `json:"additional_info" bson:"additional_info"`
	MapEmbed       string    `json:"map_embed" bson:"map_embed"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

func (PartyInfo) TableName() string { return "party_info" }

func (p *PartyInfo) RecordID() string { return p.ID }

func (p *PartyInfo) stamp(id string, at time.Time) {
	p.ID = id
	p.CreatedAt = at
}
