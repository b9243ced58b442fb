package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/models"
)

type PartyInput struct {
	EventName      string `json:"event_name" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Address        string `json:"address" binding:"required"`
	LocationName   string `json:"location_name"`
	AdditionalInfo string `json:"additional_info"`
	MapEmbed       string `json:"map_embed"`
}

func (in PartyInput) record() *models.PartyInfo {
	return &models.PartyInfo{
		EventName:      strings.TrimSpace(in.EventName),
		Date:           strings.TrimSpace(in.Date),
		Time:           strings.TrimSpace(in.Time),
		Address:        strings.TrimSpace(in.Address),
		LocationName:   strings.TrimSpace(in.LocationName),
		AdditionalInfo: strings.TrimSpace(in.AdditionalInfo),
		MapEmbed:       strings.TrimSpace(in.MapEmbed),
	}
}

// patch replaces every editable field, so clearing an optional field works.
func (in PartyInput) patch() map[string]any {
	r := in.record()
	return map[string]any{
		"event_name":      r.EventName,
		"date":            r.Date,
		"time":            r.Time,
		"address":         r.Address,
		"location_name":   r.LocationName,
		"additional_info": r.AdditionalInfo,
		"map_embed":       r.MapEmbed,
	}
}

// PartyService keeps the single PartyInfo record.
type PartyService struct {
	party  *models.PartyInfoStore
	logger *slog.Logger
}

func NewPartyService(party *models.PartyInfoStore, logger *slog.Logger) *PartyService {
	return &PartyService{party: party, logger: logger}
}

// Current returns the party info, or nil before the admin has saved any.
func (ps *PartyService) Current(ctx context.Context) (*models.PartyInfo, error) {
	infos, err := ps.party.List(ctx, "created_at")
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}
	return infos[0], nil
}

// Save creates the record on first use and updates it in place afterwards.
func (ps *PartyService) Save(ctx context.Context, grant auth.Grant, in PartyInput) (*models.PartyInfo, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}

	current, err := ps.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		created, err := ps.party.Create(ctx, in.record())
		if err != nil {
			return nil, err
		}
		ps.logger.Info("Party info created", "party_id", created.ID, "admin", grant.Subject())
		return created, nil
	}

	updated, err := ps.party.Update(ctx, current.ID, in.patch())
	if err != nil {
		return nil, err
	}
	ps.logger.Info("Party info updated", "party_id", updated.ID, "admin", grant.Subject())
	return updated, nil
}
