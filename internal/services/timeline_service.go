package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/models"
)

type TimelineInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	AgeMonths   int    `json:"age_months"`
	PhotoURL    string `json:"photo_url"`
	Order       int    `json:"order"`
}

type TimelineService struct {
	items  *models.TimelineItemStore
	logger *slog.Logger
}

func NewTimelineService(items *models.TimelineItemStore, logger *slog.Logger) *TimelineService {
	return &TimelineService{items: items, logger: logger}
}

// List returns the items ascending by order; equal orders keep insertion
// order.
func (ts *TimelineService) List(ctx context.Context) ([]*models.TimelineItem, error) {
	return ts.items.List(ctx, "order")
}

func (ts *TimelineService) Create(ctx context.Context, grant auth.Grant, in TimelineInput) (*models.TimelineItem, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}
	item, err := ts.items.Create(ctx, &models.TimelineItem{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        strings.TrimSpace(in.Date),
		AgeMonths:   in.AgeMonths,
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Order:       in.Order,
	})
	if err != nil {
		return nil, err
	}
	ts.logger.Info("Timeline item created", "item_id", item.ID, "order", item.Order)
	return item, nil
}

// Update applies a partial change; fields absent from patch are kept.
func (ts *TimelineService) Update(ctx context.Context, grant auth.Grant, id string, patch map[string]any) (*models.TimelineItem, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, &models.ValidationError{Reason: "no fields to update"}
	}
	return ts.items.Update(ctx, id, patch)
}

func (ts *TimelineService) Delete(ctx context.Context, grant auth.Grant, id string) error {
	if err := grant.Require(); err != nil {
		return err
	}
	if err := ts.items.Delete(ctx, id); err != nil {
		return err
	}
	ts.logger.Info("Timeline item deleted", "item_id", id)
	return nil
}
