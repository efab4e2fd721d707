// Package agent holds the static persona registry, the keyword router that
// picks a persona for an inbound message, and the prompt composer.
//
// The registry is closed: every persona is declared here at compile time and
// the router always resolves to a member of it, falling back to the default
// persona when nothing matches.
package agent

import "strings"

// ID identifies one of the fixed agent personas.
type ID string

const (
	Lexi  ID = "LEXI"
	Miss  ID = "MISS"
	Atlas ID = "ATLAS"
	Legal ID = "LEGAL"
)

// Default is returned by Select when no keyword matches.
const Default = Lexi

// Definition is one immutable persona entry. MonthlyPrice is whole Naira.
type Definition struct {
	ID           ID
	Name         string
	MonthlyPrice int
	Keywords     []string
}

// registry is the declared priority order. Select walks it front to back,
// so earlier entries win when a message matches more than one persona.
var registry = []Definition{
	{
		ID:           Lexi,
		Name:         "Lexi",
		MonthlyPrice: 15000,
		Keywords:     []string{"business", "automation", "whatsapp", "marketing", "sales"},
	},
	{
		ID:           Miss,
		Name:         "MISS",
		MonthlyPrice: 0,
		Keywords:     []string{"university", "admission", "student", "mudiame", "education", "school"},
	},
	{
		ID:           Atlas,
		Name:         "Atlas",
		MonthlyPrice: 25000,
		Keywords:     []string{"luxury", "travel", "hotel", "premium", "exclusive", "concierge"},
	},
	{
		ID:           Legal,
		Name:         "Legal",
		MonthlyPrice: 20000,
		Keywords:     []string{"legal", "contract", "compliance", "ndpr", "privacy", "policy"},
	},
}

// All returns the registered personas in priority order.
func All() []Definition {
	out := make([]Definition, len(registry))
	copy(out, registry)
	return out
}

// Get looks up a persona by ID.
func Get(id ID) (Definition, bool) {
	for _, def := range registry {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Select maps free-text input to a persona. Matching is case-insensitive
// substring matching, which trades precision for recall: a short keyword can
// match inside a longer word, and that is acceptable for this routing
// decision. Select never fails; unmatched messages go to the Default persona.
func Select(message string) ID {
	m := strings.ToLower(message)
	for _, def := range registry {
		for _, kw := range def.Keywords {
			if strings.Contains(m, kw) {
				return def.ID
			}
		}
	}
	return Default
}
