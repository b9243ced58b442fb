package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/models"
)

// RSVPInput is a guest response. Nil counts take the defaults of one adult
// and no children.
type RSVPInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	WillAttend    bool   `json:"will_attend"`
	AdultsCount   *int   `json:"adults_count"`
	ChildrenCount *int   `json:"children_count"`
	Message       string `json:"message"`
}

// RSVPReport is what the admin dashboard shows: every response newest-first
// and the live attendance totals.
type RSVPReport struct {
	Guests  []*models.Guest   `json:"guests"`
	Summary AttendanceSummary `json:"summary"`
}

type RSVPService struct {
	guests *models.GuestStore
	logger *slog.Logger
}

func NewRSVPService(guests *models.GuestStore, logger *slog.Logger) *RSVPService {
	return &RSVPService{guests: guests, logger: logger}
}

func (rs *RSVPService) Submit(ctx context.Context, in RSVPInput) (*models.Guest, error) {
	guest := &models.Guest{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		WillAttend:    in.WillAttend,
		AdultsCount:   models.DefaultAdultsCount,
		ChildrenCount: models.DefaultChildrenCount,
		Message:       strings.TrimSpace(in.Message),
	}
	if in.AdultsCount != nil {
		guest.AdultsCount = *in.AdultsCount
	}
	if in.ChildrenCount != nil {
		guest.ChildrenCount = *in.ChildrenCount
	}

	created, err := rs.guests.Create(ctx, guest)
	if err != nil {
		return nil, err
	}
	rs.logger.Info("RSVP received", "guest_id", created.ID, "will_attend", created.WillAttend)
	return created, nil
}

func (rs *RSVPService) List(ctx context.Context, grant auth.Grant) ([]*models.Guest, error) {
	if err := grant.Require(); err != nil {
		return nil, err
	}
	return rs.guests.List(ctx, "-created_at")
}

// Report recomputes the summary from the current guest list on every call.
func (rs *RSVPService) Report(ctx context.Context, grant auth.Grant) (*RSVPReport, error) {
	guests, err := rs.List(ctx, grant)
	if err != nil {
		return nil, err
	}
	return &RSVPReport{Guests: guests, Summary: AggregateAttendance(guests)}, nil
}

func (rs *RSVPService) Delete(ctx context.Context, grant auth.Grant, id string) error {
	if err := grant.Require(); err != nil {
		return err
	}
	if err := rs.guests.Delete(ctx, id); err != nil {
		return err
	}
	rs.logger.Info("RSVP deleted", "guest_id", id, "admin", grant.Subject())
	return nil
}
