package products

import (
	"context"
	"math"
	"slices"
	"time"

	"tourdesk/models"
	"tourdesk/utils"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 180
)

// AvailableDate is one bookable day with the departure times on it.
type AvailableDate struct {
	Date  string   `json:"date"`
	Times []string `json:"times"`
}

func bookable(p models.ExcursionProduct, day string) bool {
	for _, r := range p.DateRanges {
		if day >= r.Start && day <= r.End && !slices.Contains(r.ExcludedDates, day) {
			return true
		}
	}
	return false
}

// Availability lists the bookable days of a published product between from
// and to inclusive. Empty bounds default to today and today plus 30 days.
func (s *Service) Availability(ctx context.Context, id, from, to string) ([]AvailableDate, error) {
	p, err := s.getPublic(ctx, id)
	if err != nil {
		return nil, err
	}

	today := s.now().Truncate(24 * time.Hour)
	start, end := today, today.AddDate(0, 0, defaultWindowDays)
	if from != "" {
		if start, err = time.Parse(utils.DateLayout, from); err != nil {
			return nil, utils.Validation("from must be YYYY-MM-DD")
		}
		if to == "" {
			end = start.AddDate(0, 0, defaultWindowDays)
		}
	}
	if to != "" {
		if end, err = time.Parse(utils.DateLayout, to); err != nil {
			return nil, utils.Validation("to must be YYYY-MM-DD")
		}
	}
	if end.Before(start) {
		return nil, utils.Validation("from is after to")
	}
	if end.Sub(start) > maxWindowDays*24*time.Hour {
		return nil, utils.Validation("window is limited to %d days", maxWindowDays)
	}

	times := p.StartTimes
	if times == nil {
		times = []string{}
	}
	out := []AvailableDate{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format(utils.DateLayout)
		if bookable(p, day) {
			out = append(out, AvailableDate{Date: day, Times: times})
		}
	}
	return out, nil
}

type QuoteRequest struct {
	Tickets            []models.TicketLine `json:"tickets"`
	AdditionalServices []string            `json:"additionalServices"`
	PaymentType        string              `json:"paymentType"`
}

type QuoteLine struct {
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	Count     int     `json:"count"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
}

type Quote struct {
	Lines       []QuoteLine `json:"lines"`
	Total       float64     `json:"total"`
	PaymentType string      `json:"paymentType"`
	DueNow      float64     `json:"dueNow"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ticketFor picks the ticket priced for typ, preferring the default price
// when a type has several.
func ticketFor(p models.ExcursionProduct, typ string) (models.Ticket, bool) {
	var found *models.Ticket
	for i := range p.Tickets {
		t := p.Tickets[i]
		if t.Type != typ {
			continue
		}
		if found == nil || (t.IsDefaultPrice && !found.IsDefaultPrice) {
			found = &p.Tickets[i]
		}
	}
	if found == nil {
		return models.Ticket{}, false
	}
	return *found, true
}

func paymentOption(p models.ExcursionProduct, typ string) (models.PaymentOption, error) {
	if typ == "" {
		if len(p.PaymentOptions) > 0 {
			return p.PaymentOptions[0], nil
		}
		return models.PaymentOption{Type: models.PaymentFull}, nil
	}
	if !ValidPaymentType(typ) {
		return models.PaymentOption{}, utils.Validation("unknown payment type %q", typ)
	}
	if len(p.PaymentOptions) == 0 {
		if typ == models.PaymentPrepayment {
			return models.PaymentOption{}, utils.Validation("payment type %q is not offered", typ)
		}
		return models.PaymentOption{Type: typ}, nil
	}
	for _, o := range p.PaymentOptions {
		if o.Type == typ {
			return o, nil
		}
	}
	return models.PaymentOption{}, utils.Validation("payment type %q is not offered", typ)
}

// Quote prices a basket against a published product.
func (s *Service) Quote(ctx context.Context, id string, req QuoteRequest) (Quote, error) {
	p, err := s.getPublic(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	if len(req.Tickets) == 0 {
		return Quote{}, utils.Validation("at least one ticket is required")
	}

	q := Quote{Lines: []QuoteLine{}}
	for _, line := range req.Tickets {
		if line.Count < 1 || line.Count > models.MaxTicketCount {
			return Quote{}, utils.Validation("ticket %q: count must be between 1 and %d", line.Type, models.MaxTicketCount)
		}
		t, ok := ticketFor(p, line.Type)
		if !ok {
			return Quote{}, utils.Validation("ticket type %q is not offered", line.Type)
		}
		amount := round2(t.Price * float64(line.Count))
		q.Lines = append(q.Lines, QuoteLine{Name: t.Name, Type: t.Type, Count: line.Count, UnitPrice: t.Price, Amount: amount})
		q.Total += amount
	}

	for _, name := range req.AdditionalServices {
		i := slices.IndexFunc(p.AdditionalServices, func(a models.AdditionalService) bool { return a.Name == name })
		if i < 0 {
			return Quote{}, utils.Validation("additional service %q is not offered", name)
		}
		a := p.AdditionalServices[i]
		q.Lines = append(q.Lines, QuoteLine{Name: a.Name, Count: 1, UnitPrice: a.Price, Amount: a.Price})
		q.Total += a.Price
	}
	q.Total = round2(q.Total)

	opt, err := paymentOption(p, req.PaymentType)
	if err != nil {
		return Quote{}, err
	}
	q.PaymentType = opt.Type
	switch opt.Type {
	case models.PaymentFull:
		q.DueNow = q.Total
	case models.PaymentPrepayment:
		q.DueNow = round2(q.Total * float64(opt.PrepaymentPercent) / 100)
	case models.PaymentOnsite:
		q.DueNow = 0
	}
	return q, nil
}
