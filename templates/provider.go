// Package templates resolves the seed stop list for a given trip name and
// day. The default provider is backed by a hand-authored table; the
// itinerary authoring subsystem can supply its own Provider to feed real
// itineraries into the engine without touching transition logic.
package templates

import (
	"fmt"

	"github.com/RoamLine/trip-progress-engine/types"
)

// Provider resolves day seed data for a trip. Implementations must be
// pure: repeated calls with the same arguments return equivalent,
// independent values.
type Provider interface {
	// Resolve returns the ordered stop list for the given day, always as
	// a fresh copy with statuses reset (index 0 current, rest upcoming).
	Resolve(tripName string, day int) []types.TripStop
	// TotalDays returns the number of days the template defines for the
	// trip name, or the generic default for unknown names.
	TotalDays(tripName string) int
}

const (
	// DefaultTotalDays is assumed for trip names without a template.
	DefaultTotalDays = 3
	// DefaultTheme labels trips without a template.
	DefaultTheme = "Explorer"
)

// StaticProvider is the built-in Provider backed by the fixed
// name → day → stops table in data.go.
type StaticProvider struct {
	table map[string]tripTemplate
	theme map[string]string
}

type tripTemplate map[int][]types.TripStop

// NewStaticProvider returns a provider over the built-in template table.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		table: builtinTemplates(),
		theme: builtinThemes(),
	}
}

// Resolve returns the stop list seeding the given day. Unknown trip
// names, and days beyond what the template defines, fall back to the
// generic template. The result is always an independent copy with
// statuses forced: any status embedded in template data is ignored
// because a resolve always represents a fresh day.
func (p *StaticProvider) Resolve(tripName string, day int) []types.TripStop {
	if tpl, ok := p.table[tripName]; ok {
		if stops, ok := tpl[day]; ok {
			return freshDay(types.CopyStops(stops))
		}
	}
	return freshDay(genericDay(day))
}

// TotalDays derives the trip length from the same table Resolve reads,
// keeping the resolver and the day count a single source of truth.
func (p *StaticProvider) TotalDays(tripName string) int {
	if tpl, ok := p.table[tripName]; ok {
		return len(tpl)
	}
	return DefaultTotalDays
}

// Theme returns the display theme for a trip name, or the generic one.
func (p *StaticProvider) Theme(tripName string) string {
	if theme, ok := p.theme[tripName]; ok {
		return theme
	}
	return DefaultTheme
}

// freshDay forces the day-start status layout onto a stop list.
func freshDay(stops []types.TripStop) []types.TripStop {
	for i := range stops {
		if i == 0 {
			stops[i].Status = types.StopStatusCurrent
		} else {
			stops[i].Status = types.StopStatusUpcoming
		}
	}
	return stops
}

// genericDay copies the generic fallback template. For days past the
// first, stop IDs are namespaced with the day number so IDs stay unique
// if a caller materializes several days into its own history.
func genericDay(day int) []types.TripStop {
	stops := types.CopyStops(genericTemplate())
	if day > 1 {
		for i := range stops {
			stops[i].ID = fmt.Sprintf("%d-%s", day, stops[i].ID)
		}
	}
	return stops
}
