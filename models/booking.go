package models

import "time"

const (
	BookingNew       = "new"
	BookingProcessed = "processed"
	BookingArchived  = "archived"
	BookingDeleted   = "deleted"
)

// BookingStatuses lists every status a booking may carry. Any status can be
// set from any other one.
var BookingStatuses = []string{BookingNew, BookingProcessed, BookingArchived, BookingDeleted}

// Booking is a lead captured by the public booking form.
type Booking struct {
	ID          string       `json:"id" bson:"_id"`
	FullName    string       `json:"fullName" bson:"fullName"`
	Phone       string       `json:"phone" bson:"phone"`
	Email       string       `json:"email,omitempty" bson:"email,omitempty"`
	PaymentType string       `json:"paymentType,omitempty" bson:"paymentType,omitempty"`
	Status      string       `json:"status" bson:"status"`
	ExcursionID string       `json:"excursionId,omitempty" bson:"excursionId,omitempty"`
	Date        string       `json:"date,omitempty" bson:"date,omitempty"`
	Time        string       `json:"time,omitempty" bson:"time,omitempty"`
	Comment     string       `json:"comment,omitempty" bson:"comment,omitempty"`
	Tickets     []TicketLine `json:"tickets,omitempty" bson:"tickets,omitempty"`
	TicketType  string       `json:"ticketType,omitempty" bson:"ticketType,omitempty"`
	TicketCount int          `json:"ticketCount,omitempty" bson:"ticketCount,omitempty"`
	PromoCode   string       `json:"promoCode,omitempty" bson:"promoCode,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// BookingEvent is published when a booking is created or changes status.
type BookingEvent struct {
	Type    string  `json:"type"`
	Booking Booking `json:"booking"`
}
