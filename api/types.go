package api

import "time"

// Periodicity controls how often an Event recurs.
type Periodicity string

const (
	PeriodicityOnce   Periodicity = "once"   // full HH:MM:SS match
	PeriodicityHourly Periodicity = "hourly" // MM:SS match, any hour
	PeriodicityGrid   Periodicity = "grid"   // MM:SS match within OtherHours
)

// Priority is stored on every Event but never consulted by the trigger scan;
// conflict policy belongs to the host.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityLow  Priority = "low"
)

// EventType selects the Event payload. Only TypeFile and TypeRandom resolve
// to an audio path inside this program; the remaining types are placeholders
// the host renders on its own (speech clock, temperature, satellite insert).
type EventType string

const (
	TypeFile   EventType = "file"
	TypeRandom EventType = "random"
	TypeTime   EventType = "time"
	TypeTemp   EventType = "temp"
	TypeSat    EventType = "sat"
)

// Extra carries host-owned knobs. The core persists them untouched.
type Extra struct {
	WaitEnabled bool   `json:"wait_enabled"`
	WaitMinutes int    `json:"wait_minutes"`
	Duration    string `json:"duration"`
}

// Event is one persisted scheduling rule. Events have no stable identifier:
// a record is addressed by its position in the stored sequence, and deleting
// or duplicating shifts every later position.
type Event struct {
	Name        string      `json:"name"`
	Time        string      `json:"time"` // HH:MM:SS, compared as text
	Periodicity Periodicity `json:"periodicity"`
	OtherHours  []int       `json:"other_hours"`
	Days        []bool      `json:"days"` // 7 flags, Monday first
	Active      bool        `json:"active"`
	Priority    Priority    `json:"priority"`
	Immediate   bool        `json:"immediate"`
	Overlay     bool        `json:"overlay"`
	Expire      bool        `json:"expire"`
	ExpireDate  string      `json:"expire_date,omitempty"` // YYYY-MM-DD
	Type        EventType   `json:"type"`
	Value       string      `json:"value"`
	Offset      float64     `json:"offset,omitempty"` // start offset in seconds, set during pre-listen
	Extra       Extra       `json:"extra"`
}

// Clone returns a deep copy, used when duplicating a record so the copy does
// not share slices with the original.
func (e Event) Clone() Event {
	c := e
	c.OtherHours = append([]int(nil), e.OtherHours...)
	c.Days = append([]bool(nil), e.Days...)
	return c
}

// AllDays is the default weekday mask: eligible every day.
func AllDays() []bool {
	return []bool{true, true, true, true, true, true, true}
}

// Device identifies an audio output by the index obtained from device
// enumeration plus a human-readable label.
type Device struct {
	Index int
	Name  string
}

// PlayRecord is one line of the play history log.
type PlayRecord struct {
	FiredAt time.Time
	Name    string
	Type    string
	Value   string
	Offset  float64
}
