package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength is the hard cap on stored comment text.
const MaxCommentLength = 280

// MaxTags is the maximum number of tags an event may carry.
const MaxTags = 4

// EndingWindow is how long before the end time an event counts as "ending".
const EndingWindow = 15 * time.Minute

// Tag categorizes the food offered at an event.
type Tag string

const (
	TagPizza      Tag = "pizza"
	TagSnacks     Tag = "snacks"
	TagDrinks     Tag = "drinks"
	TagDessert    Tag = "dessert"
	TagVegan      Tag = "vegan"
	TagVegetarian Tag = "vegetarian"
	TagGlutenFree Tag = "gluten_free"
	TagHalal      Tag = "halal"
	TagCoffee     Tag = "coffee"
	TagLeftovers  Tag = "leftovers"
)

// AllTags lists every selectable tag.
var AllTags = []Tag{
	TagPizza, TagSnacks, TagDrinks, TagDessert, TagVegan,
	TagVegetarian, TagGlutenFree, TagHalal, TagCoffee, TagLeftovers,
}

// IsValidTag reports whether t is a member of the fixed tag enumeration.
func IsValidTag(t Tag) bool {
	for _, known := range AllTags {
		if t == known {
			return true
		}
	}
	return false
}

// AttendanceStatus is a user's RSVP on an event.
type AttendanceStatus string

const (
	AttendanceGoing    AttendanceStatus = "going"
	AttendanceMaybe    AttendanceStatus = "maybe"
	AttendanceNotGoing AttendanceStatus = "notGoing"
)

// IsValidAttendanceStatus reports whether s is one of the three RSVP values.
func IsValidAttendanceStatus(s AttendanceStatus) bool {
	return s == AttendanceGoing || s == AttendanceMaybe || s == AttendanceNotGoing
}

// EventStatus is the time-derived classification of an event.
type EventStatus string

const (
	StatusEnded         EventStatus = "ended"
	StatusEnding        EventStatus = "ending"
	StatusActive        EventStatus = "active"
	StatusUpcomingToday EventStatus = "upcoming_today"
	StatusUpcoming      EventStatus = "upcoming"
)

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Comment is an immutable remark on an event.
type Comment struct {
	ID             uuid.UUID
	Text           string
	AuthorUsername string
	Timestamp      time.Time
}

// Attendee is a user's RSVP record on an event. At most one exists per
// account id per event; a new status replaces the prior record.
type Attendee struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Status    AttendanceStatus
}

// Event is a free-food posting. CreatedBy holds the creator's username
// string, not their account id; renaming a user rewrites this field across
// all their events.
type Event struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Location      GeoPoint
	LocationLabel string
	StartTime     time.Time
	EndTime       time.Time
	CreatedBy     string
	IsActive      bool
	Comments      []Comment
	Attendees     []Attendee
	Tags          []Tag
	CreatedAt     time.Time
}

// ActiveAt reports whether the event is still running at the given instant.
func (e *Event) ActiveAt(now time.Time) bool {
	return e.EndTime.After(now)
}

// RefreshActive recomputes the stored IsActive flag. It is applied after
// every mutation and on fetch, so readers never observe a flag staler than
// the last engine touch.
func (e *Event) RefreshActive(now time.Time) {
	e.IsActive = e.ActiveAt(now)
}

// StatusAt classifies the event relative to now.
//
// Order of checks matters: an event past its end time is ended no matter
// what; a same-day event inside the 15-minute pre-end window is ending even
// if it is also currently running.
func (e *Event) StatusAt(now time.Time) EventStatus {
	if now.After(e.EndTime) {
		return StatusEnded
	}
	if sameDay(e.StartTime, now) && now.After(e.EndTime.Add(-EndingWindow)) {
		return StatusEnding
	}
	if !now.Before(e.StartTime) {
		return StatusActive
	}
	if sameDay(e.StartTime, now) {
		return StatusUpcomingToday
	}
	return StatusUpcoming
}

// GoingCount returns the number of attendees with status "going".
func (e *Event) GoingCount() int {
	n := 0
	for _, a := range e.Attendees {
		if a.Status == AttendanceGoing {
			n++
		}
	}
	return n
}

// AttendeeFor returns the attendee record for the given account, if any.
func (e *Event) AttendeeFor(accountID uuid.UUID) (Attendee, bool) {
	for _, a := range e.Attendees {
		if a.AccountID == accountID {
			return a, true
		}
	}
	return Attendee{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
