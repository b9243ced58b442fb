package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/festa/internal/models"
)

// PartyReader returns the current party info, or nil when none exists yet.
type PartyReader interface {
	Current(ctx context.Context) (*models.PartyInfo, error)
}

// Assembler builds the instruction block for one question. It keeps no
// state between calls; party info is re-read every time.
type Assembler struct {
	persona *Persona
	party   PartyReader
	logger  *slog.Logger
}

func NewAssembler(persona *Persona, party PartyReader, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{persona: persona, party: party, logger: logger}
}

// Build never fails: missing or unreadable party info becomes the persona's
// placeholder sentence.
func (a *Assembler) Build(ctx context.Context, question string) string {
	p := a.persona
	var b strings.Builder

	b.WriteString(p.Intro)
	b.WriteString("\n\n")

	writeList(&b, p.Headings.Facts, p.Facts)

	b.WriteString(p.Headings.Party)
	b.WriteString("\n")
	if info := a.currentParty(ctx); info != nil {
		a.writeParty(&b, info)
	} else {
		fmt.Fprintf(&b, "- %s\n", p.PartyPlaceholder)
	}
	b.WriteString("\n")

	writeList(&b, p.Headings.Gifts, p.GiftIdeas)

	b.WriteString(p.Headings.Rules)
	b.WriteString("\n")
	for i, rule := range p.BehaviorRules() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	b.WriteString("\n")

	b.WriteString(p.Headings.Question)
	b.WriteString(" ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}

func (a *Assembler) currentParty(ctx context.Context) *models.PartyInfo {
	if a.party == nil {
		return nil
	}
	info, err := a.party.Current(ctx)
	if err != nil {
		a.logger.Warn("Party info unavailable for prompt", "error", err)
		return nil
	}
	return info
}

func (a *Assembler) writeParty(b *strings.Builder, info *models.PartyInfo) {
	l := a.persona.PartyLabels
	extra := info.AdditionalInfo
	if strings.TrimSpace(extra) == "" {
		extra = l.None
	}

	fmt.Fprintf(b, "- %s: %s\n", l.EventName, info.EventName)
	fmt.Fprintf(b, "- %s: %s\n", l.Date, a.formatDate(info.Date))
	fmt.Fprintf(b, "- %s: %s\n", l.Time, info.Time)
	fmt.Fprintf(b, "- %s: %s\n", l.Location, info.LocationName)
	fmt.Fprintf(b, "- %s: %s\n", l.Address, info.Address)
	fmt.Fprintf(b, "- %s: %s\n", l.Extra, extra)
}

// formatDate renders an ISO date in the persona's layout and leaves any
// other value untouched.
func (a *Assembler) formatDate(raw string) string {
	layout := a.persona.DateLayout
	if layout == "" {
		return raw
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return d.Format(layout)
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
