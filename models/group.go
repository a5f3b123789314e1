package models

import "time"

const (
	GroupActive    = "active"
	GroupCompleted = "completed"
	GroupCancelled = "cancelled"
)

// Group is one scheduled departure. BookedSeats is maintained by the tourist
// endpoints and must stay within [0, TotalSeats].
type Group struct {
	ID          string      `json:"id" bson:"_id"`
	ExcursionID string      `json:"excursionId,omitempty" bson:"excursionId,omitempty"`
	Date        string      `json:"date" bson:"date"`
	Time        string      `json:"time" bson:"time"`
	Place       string      `json:"place,omitempty" bson:"place,omitempty"`
	TotalSeats  int         `json:"totalSeats" bson:"totalSeats"`
	BookedSeats int         `json:"bookedSeats" bson:"bookedSeats"`
	Transport   []Transport `json:"transport,omitempty" bson:"transport,omitempty"`
	Guide       *Guide      `json:"guide,omitempty" bson:"guide,omitempty"`
	Status      string      `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// FreeSeats is TotalSeats minus BookedSeats.
func (g Group) FreeSeats() int {
	return g.TotalSeats - g.BookedSeats
}

type Transport struct {
	Type   string `json:"type" bson:"type"`
	Number string `json:"number,omitempty" bson:"number,omitempty"`
	Driver string `json:"driver,omitempty" bson:"driver,omitempty"`
}

type Guide struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Tourist is a participant attached to a group.
type Tourist struct {
	ID        string       `json:"id" bson:"_id"`
	GroupID   string       `json:"groupId" bson:"groupId"`
	Name      string       `json:"name" bson:"name"`
	Phone     string       `json:"phone,omitempty" bson:"phone,omitempty"`
	Tickets   []TicketLine `json:"tickets" bson:"tickets"`
	Notes     string       `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
}

// Seats is the number of seats the tourist occupies.
func (t Tourist) Seats() int {
	return SumTickets(t.Tickets)
}
