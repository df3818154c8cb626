package domain

import "time"

// EventStatus marks the event emphasized by the landing page
type EventStatus string

// event statuses
const (
	EventNormal EventStatus = "normal"
	EventNear   EventStatus = "near"
)

// Event represents a meetup event
type Event struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Time         time.Time   `json:"time"`
	LocalDate    string      `json:"local_date"`
	Venue        Venue       `json:"venue"`
	Link         string      `json:"link"`
	Description  string      `json:"description"`
	Registration string      `json:"registration"`
	Status       EventStatus `json:"status"`
}

// Venue of an event
type Venue struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}
