package products

import (
	"slices"

	"tourdesk/models"
	"tourdesk/utils"
)

var (
	ticketTypes  = []string{models.TicketAdult, models.TicketChild, models.TicketAdditional}
	paymentTypes = []string{models.PaymentFull, models.PaymentPrepayment, models.PaymentOnsite}
)

// ValidTicketType reports whether t is one of the known ticket types.
func ValidTicketType(t string) bool {
	return slices.Contains(ticketTypes, t)
}

// ValidPaymentType reports whether t is one of the known payment types.
func ValidPaymentType(t string) bool {
	return slices.Contains(paymentTypes, t)
}

// normalize validates p in place. Start times come back sorted and unique and
// nil slices become empty ones.
func normalize(p *models.ExcursionProduct) error {
	if p.Title == "" {
		return utils.Validation("title is required")
	}

	defaults := 0
	for i, t := range p.Tickets {
		if !ValidTicketType(t.Type) {
			return utils.Validation("ticket %d: unknown type %q", i+1, t.Type)
		}
		if t.Name == "" {
			return utils.Validation("ticket %d: name is required", i+1)
		}
		if t.Price < 0 {
			return utils.Validation("ticket %d: price must not be negative", i+1)
		}
		if t.IsDefaultPrice {
			defaults++
		}
	}
	if defaults > 1 {
		return utils.Validation("only one ticket can be the default price")
	}

	for i, o := range p.PaymentOptions {
		if !ValidPaymentType(o.Type) {
			return utils.Validation("payment option %d: unknown type %q", i+1, o.Type)
		}
		if o.Type == models.PaymentPrepayment && (o.PrepaymentPercent < 1 || o.PrepaymentPercent > 100) {
			return utils.Validation("payment option %d: prepayment percent must be between 1 and 100", i+1)
		}
	}

	for i, r := range p.DateRanges {
		if !utils.ValidDate(r.Start) || !utils.ValidDate(r.End) {
			return utils.Validation("date range %d: dates must be YYYY-MM-DD", i+1)
		}
		if r.Start > r.End {
			return utils.Validation("date range %d: start is after end", i+1)
		}
		for _, d := range r.ExcludedDates {
			if !utils.ValidDate(d) {
				return utils.Validation("date range %d: excluded date %q must be YYYY-MM-DD", i+1, d)
			}
		}
	}

	for _, st := range p.StartTimes {
		if !utils.ValidClock(st) {
			return utils.Validation("start time %q must be HH:MM", st)
		}
	}
	p.StartTimes = utils.Dedupe(p.StartTimes)
	slices.Sort(p.StartTimes)

	for i, s := range p.Services {
		if s.Type == "" {
			return utils.Validation("service %d: type is required", i+1)
		}
		if s.Price < 0 || s.Hours < 0 || s.PeopleCount < 0 {
			return utils.Validation("service %d: price, hours and people count must not be negative", i+1)
		}
	}

	for i, mp := range p.MeetingPoints {
		if mp.Name == "" {
			return utils.Validation("meeting point %d: name is required", i+1)
		}
		if c := mp.Coordinates; c != nil && (c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180) {
			return utils.Validation("meeting point %d: coordinates out of range", i+1)
		}
	}

	for i, a := range p.AdditionalServices {
		if a.Name == "" {
			return utils.Validation("additional service %d: name is required", i+1)
		}
		if a.Price < 0 {
			return utils.Validation("additional service %d: price must not be negative", i+1)
		}
	}

	for i, g := range p.Groups {
		if g.Date != "" && !utils.ValidDate(g.Date) {
			return utils.Validation("group %d: date must be YYYY-MM-DD", i+1)
		}
		if g.Time != "" && !utils.ValidClock(g.Time) {
			return utils.Validation("group %d: time must be HH:MM", i+1)
		}
		if g.MaxSize < 0 {
			return utils.Validation("group %d: max size must not be negative", i+1)
		}
	}

	if p.Services == nil {
		p.Services = []models.Service{}
	}
	if p.DateRanges == nil {
		p.DateRanges = []models.DateRange{}
	}
	if p.MeetingPoints == nil {
		p.MeetingPoints = []models.MeetingPoint{}
	}
	if p.Tickets == nil {
		p.Tickets = []models.Ticket{}
	}
	if p.PaymentOptions == nil {
		p.PaymentOptions = []models.PaymentOption{}
	}
	if p.AdditionalServices == nil {
		p.AdditionalServices = []models.AdditionalService{}
	}
	if p.Groups == nil {
		p.Groups = []models.ProductGroup{}
	}
	return nil
}
