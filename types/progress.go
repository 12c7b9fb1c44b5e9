package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// StopStatus tracks a single stop's position in its lifecycle.
type StopStatus string

const (
	StopStatusUpcoming  StopStatus = "UPCOMING"  // Not reached yet
	StopStatusCurrent   StopStatus = "CURRENT"   // The stop the traveler is engaged in now
	StopStatusCompleted StopStatus = "COMPLETED" // Visited and done
	StopStatusSkipped   StopStatus = "SKIPPED"   // Deliberately passed over
)

// String provides a string representation of the status
func (s StopStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid stop status
func (s StopStatus) IsValid() bool {
	switch s {
	case StopStatusUpcoming, StopStatusCurrent, StopStatusCompleted, StopStatusSkipped:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends the stop's lifecycle.
// Terminal stops never become current again.
func (s StopStatus) IsTerminal() bool {
	return s == StopStatusCompleted || s == StopStatusSkipped
}

// TransportMode identifies how the traveler moves into a stop.
type TransportMode string

const (
	TransportModeGrabBike TransportMode = "grab_bike"
	TransportModeGrabCar  TransportMode = "grab_car"
	TransportModeWalk     TransportMode = "walk"
)

// TransportInfo describes the leg into a stop from the previous one.
// Purely descriptive; it never drives progress state.
type TransportInfo struct {
	Mode          TransportMode    `json:"mode"`
	DurationLabel string           `json:"durationLabel"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
}

// Copy returns an independent copy of the transport info.
func (t *TransportInfo) Copy() *TransportInfo {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Cost != nil {
		cost := *t.Cost
		cp.Cost = &cost
	}
	return &cp
}

// TripStop is a single planned activity within one day of a trip.
// Stop IDs are unique within their day; stops have no identity outside
// the TripProgress that owns them.
type TripStop struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Category      string         `json:"category"`
	ScheduledTime string         `json:"scheduledTime"`
	DurationLabel string         `json:"durationLabel"`
	Status        StopStatus     `json:"status"`
	Address       string         `json:"address,omitempty"`
	ImageRef      string         `json:"imageRef,omitempty"`
	Transport     *TransportInfo `json:"transport,omitempty"`
}

// Copy returns an independent copy of the stop.
func (s TripStop) Copy() TripStop {
	cp := s
	cp.Transport = s.Transport.Copy()
	return cp
}

// CopyStops deep-copies an ordered stop list.
func CopyStops(stops []TripStop) []TripStop {
	if stops == nil {
		return nil
	}
	out := make([]TripStop, len(stops))
	for i, s := range stops {
		out[i] = s.Copy()
	}
	return out
}

// TripProgress is the engine's record of a traveler's advancement
// through a multi-day itinerary. Only the current day's stops are held;
// past days are reseeded, not retained.
type TripProgress struct {
	TripID        string     `json:"tripId"`
	TripName      string     `json:"tripName"`
	TripTheme     string     `json:"tripTheme"`
	CurrentDay    int        `json:"currentDay"`
	TotalDays     int        `json:"totalDays"`
	Stops         []TripStop `json:"stops"`
	DayCompleted  bool       `json:"dayCompleted"`
	TripCompleted bool       `json:"tripCompleted"`
	StartedAt     time.Time  `json:"startedAt"`
	LastUpdated   time.Time  `json:"lastUpdated"`
}

// Copy returns an independent copy of the progress record, including
// its stops.
func (p *TripProgress) Copy() *TripProgress {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Stops = CopyStops(p.Stops)
	return &cp
}

// FindStop returns the index of the stop with the given ID, or -1.
func (p *TripProgress) FindStop(stopID string) int {
	for i := range p.Stops {
		if p.Stops[i].ID == stopID {
			return i
		}
	}
	return -1
}

// CurrentStop returns the stop currently marked CURRENT, or nil.
func (p *TripProgress) CurrentStop() *TripStop {
	for i := range p.Stops {
		if p.Stops[i].Status == StopStatusCurrent {
			return &p.Stops[i]
		}
	}
	return nil
}

// AllStopsDone reports whether every stop in the active day has reached
// a terminal status.
func (p *TripProgress) AllStopsDone() bool {
	for i := range p.Stops {
		if !p.Stops[i].Status.IsTerminal() {
			return false
		}
	}
	return true
}
