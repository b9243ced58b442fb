package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed persona.toml
var defaultPersona string

const contactToken = "{contact}"

// Persona is the fixed character the assistant plays: who it is, what it
// knows about itself, how it behaves, and the copy used when the generation
// service is unavailable. It is loaded once and never mutated.
type Persona struct {
	Name             string      `toml:"name"`
	Contact          string      `toml:"contact"`
	DateLayout       string      `toml:"date_layout"`
	Greeting         string      `toml:"greeting"`
	Fallback         string      `toml:"fallback"`
	PartyPlaceholder string      `toml:"party_placeholder"`
	Intro            string      `toml:"intro"`
	Facts            []string    `toml:"facts"`
	GiftIdeas        []string    `toml:"gift_ideas"`
	Rules            []string    `toml:"rules"`
	RedirectRule     string      `toml:"redirect_rule"`
	Headings         Headings    `toml:"headings"`
	PartyLabels      PartyLabels `toml:"party_labels"`
}

type Headings struct {
	Facts    string `toml:"facts"`
	Party    string `toml:"party"`
	Gifts    string `toml:"gifts"`
	Rules    string `toml:"rules"`
	Question string `toml:"question"`
}

type PartyLabels struct {
	EventName string `toml:"event_name"`
	Date      string `toml:"date"`
	Time      string `toml:"time"`
	Location  string `toml:"location"`
	Address   string `toml:"address"`
	Extra     string `toml:"extra"`
	None      string `toml:"none"`
}

// DefaultPersona returns the embedded persona.
func DefaultPersona() (*Persona, error) {
	p := &Persona{}
	if err := decodeStrict(p, func(v any) (toml.MetaData, error) {
		return toml.Decode(defaultPersona, v)
	}); err != nil {
		return nil, fmt.Errorf("embedded persona: %w", err)
	}
	return p, p.Validate()
}

// LoadPersona reads a persona file over the embedded defaults, so a file
// only needs the keys it changes. An empty path returns the defaults.
func LoadPersona(path string) (*Persona, error) {
	p, err := DefaultPersona()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return p, nil
	}

	if err := decodeStrict(p, func(v any) (toml.MetaData, error) {
		return toml.DecodeFile(path, v)
	}); err != nil {
		return nil, fmt.Errorf("persona file %s: %w", path, err)
	}
	return p, p.Validate()
}

func decodeStrict(p *Persona, decode func(any) (toml.MetaData, error)) error {
	md, err := decode(p)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func (p *Persona) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Fallback) == "" {
		missing = append(missing, "fallback")
	}
	if strings.TrimSpace(p.PartyPlaceholder) == "" {
		missing = append(missing, "party_placeholder")
	}
	if strings.TrimSpace(p.Contact) == "" {
		missing = append(missing, "contact")
	}
	if strings.TrimSpace(p.RedirectRule) == "" {
		missing = append(missing, "redirect_rule")
	}
	if len(missing) > 0 {
		return errors.New("persona is missing " + strings.Join(missing, ", "))
	}
	return nil
}

// BehaviorRules returns the rules with the contact channel filled in. The
// redirect rule is always last.
func (p *Persona) BehaviorRules() []string {
	rules := make([]string, 0, len(p.Rules)+1)
	for _, r := range p.Rules {
		rules = append(rules, strings.ReplaceAll(r, contactToken, p.Contact))
	}
	return append(rules, strings.ReplaceAll(p.RedirectRule, contactToken, p.Contact))
}
