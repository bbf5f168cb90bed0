package schedule

import (
	"time"

	"github.com/scsbarna-pixel/automatizador/api"
)

const clockLayout = "15:04:05"

// Trigger evaluates the cached event sequence against wall-clock time. The
// host drives it once per second; ticking faster is deduplicated, ticking
// slower silently skips trigger instants (a caller responsibility).
//
// Trigger is single-threaded and purely reactive: it keeps no timer and
// performs no I/O beyond the hourly cache reload.
type Trigger struct {
	store      *Store
	cache      []api.Event
	lastSecond int
}

// NewTrigger creates a trigger over the store and loads the initial cache.
func NewTrigger(store *Store) *Trigger {
	return &Trigger{
		store:      store,
		cache:      store.Load(),
		lastSecond: -1,
	}
}

// Reload refreshes the cache from the store. Called automatically at every
// hour boundary so editor changes are absorbed without a restart; hosts may
// also call it after a known edit.
func (t *Trigger) Reload() {
	t.cache = t.store.Load()
}

// Tick returns the first record in stored order that matches now, or nil.
// Two calls within the same second-of-minute return nil the second time.
// The priority field is never consulted for tie-breaks: stored order wins.
func (t *Trigger) Tick(now time.Time) *api.Event {
	if now.Second() == t.lastSecond {
		return nil
	}
	t.lastSecond = now.Second()

	if now.Second() == 0 && now.Minute() == 0 {
		t.Reload()
	}

	clock := now.Format(clockLayout)
	day := mondayIndex(now.Weekday())

	for i := range t.cache {
		e := &t.cache[i]
		if !e.Active {
			continue
		}
		// Malformed records never abort the scan: a short days mask or a
		// bad time string just makes this record a non-match.
		if day >= len(e.Days) || !e.Days[day] {
			continue
		}
		if expired(e, now) {
			continue
		}
		if matches(e, now, clock) {
			match := e.Clone()
			return &match
		}
	}
	return nil
}

func matches(e *api.Event, now time.Time, clock string) bool {
	switch e.Periodicity {
	case api.PeriodicityOnce:
		return e.Time == clock
	case api.PeriodicityHourly:
		return len(e.Time) == len(clockLayout) && e.Time[3:] == clock[3:]
	case api.PeriodicityGrid:
		if len(e.Time) != len(clockLayout) || e.Time[3:] != clock[3:] {
			return false
		}
		for _, h := range e.OtherHours {
			if h == now.Hour() {
				return true
			}
		}
	}
	return false
}

// expired reports whether the event's expiry date has passed. The event is
// still eligible on the expiry date itself. An unparseable date is ignored
// rather than treated as expired.
func expired(e *api.Event, now time.Time) bool {
	if !e.Expire || e.ExpireDate == "" {
		return false
	}
	d, err := time.ParseInLocation("2006-01-02", e.ExpireDate, now.Location())
	if err != nil {
		return false
	}
	return !now.Before(d.AddDate(0, 0, 1))
}

// mondayIndex converts time.Weekday (Sunday=0) to the Monday-first index
// used by the persisted days mask.
func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
