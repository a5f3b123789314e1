package models

import "time"

// Ticket types sold by an excursion product.
const (
	TicketAdult      = "adult"
	TicketChild      = "child"
	TicketAdditional = "additional"
)

// Payment option types. Bookings reuse the same values for paymentType.
const (
	PaymentFull       = "full"
	PaymentPrepayment = "prepayment"
	PaymentOnsite     = "onsite"
)

// ExcursionProduct is the sellable configuration of an excursion: prices,
// schedule and meeting points.
type ExcursionProduct struct {
	ID                 string              `json:"id" bson:"_id"`
	ExcursionID        string              `json:"excursionId,omitempty" bson:"excursionId,omitempty"`
	Title              string              `json:"title" bson:"title"`
	Services           []Service           `json:"services" bson:"services"`
	DateRanges         []DateRange         `json:"dateRanges" bson:"dateRanges"`
	StartTimes         []string            `json:"startTimes" bson:"startTimes"`
	MeetingPoints      []MeetingPoint      `json:"meetingPoints" bson:"meetingPoints"`
	Tickets            []Ticket            `json:"tickets" bson:"tickets"`
	PaymentOptions     []PaymentOption     `json:"paymentOptions" bson:"paymentOptions"`
	AdditionalServices []AdditionalService `json:"additionalServices" bson:"additionalServices"`
	Groups             []ProductGroup      `json:"groups" bson:"groups"`
	Published          bool                `json:"published" bson:"published"`
	CreatedAt          time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type Service struct {
	Type        string  `json:"type" bson:"type"`
	Subtype     string  `json:"subtype,omitempty" bson:"subtype,omitempty"`
	Hours       int     `json:"hours,omitempty" bson:"hours,omitempty"`
	PeopleCount int     `json:"peopleCount,omitempty" bson:"peopleCount,omitempty"`
	Price       float64 `json:"price" bson:"price"`
}

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	Start         string   `json:"start" bson:"start"`
	End           string   `json:"end" bson:"end"`
	ExcludedDates []string `json:"excludedDates,omitempty" bson:"excludedDates,omitempty"`
}

type MeetingPoint struct {
	Name        string       `json:"name" bson:"name"`
	Address     string       `json:"address" bson:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Ticket struct {
	Type           string  `json:"type" bson:"type"`
	Name           string  `json:"name" bson:"name"`
	Price          float64 `json:"price" bson:"price"`
	IsDefaultPrice bool    `json:"isDefaultPrice" bson:"isDefaultPrice"`
}

type PaymentOption struct {
	Type              string `json:"type" bson:"type"`
	PrepaymentPercent int    `json:"prepaymentPercent,omitempty" bson:"prepaymentPercent,omitempty"`
	Description       string `json:"description,omitempty" bson:"description,omitempty"`
}

type AdditionalService struct {
	Name        string  `json:"name" bson:"name"`
	Price       float64 `json:"price" bson:"price"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

// ProductGroup is a departure template on the product itself. Real departures
// with seat accounting live in the groups collection.
type ProductGroup struct {
	Date          string         `json:"date" bson:"date"`
	Time          string         `json:"time" bson:"time"`
	MeetingPoint  string         `json:"meetingPoint,omitempty" bson:"meetingPoint,omitempty"`
	MaxSize       int            `json:"maxSize" bson:"maxSize"`
	AutoStop      bool           `json:"autoStop" bson:"autoStop"`
	GroupSettings map[string]any `json:"groupSettings,omitempty" bson:"groupSettings,omitempty"`
}

// MaxTicketCount bounds the count of a single ticket line.
const MaxTicketCount = 1000

// TicketLine is a {type, count} pair used by tourists, bookings and quotes.
type TicketLine struct {
	Type  string `json:"type" bson:"type"`
	Count int    `json:"count" bson:"count"`
}

// SumTickets returns the total seat count of lines.
func SumTickets(lines []TicketLine) int {
	n := 0
	for _, l := range lines {
		n += l.Count
	}
	return n
}
