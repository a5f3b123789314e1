package utils

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxPage bounds the page number so the skip offset stays small.
const MaxPage = 10000

type QueryOptions struct {
	Page      int
	Limit     int
	Published *bool
	Search    string
}

// Skip is the number of documents before the current page.
func (q QueryOptions) Skip() int64 {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	return int64(min(q.Page, MaxPage)-1) * int64(q.Limit)
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var published *bool
	if pubStr := q.Get("published"); pubStr != "" {
		val := pubStr == "true"
		published = &val
	}

	return QueryOptions{
		Page:      page,
		Limit:     limit,
		Published: published,
		Search:    strings.TrimSpace(q.Get("search")),
	}
}

// BoolParam reports whether query parameter name equals "true".
func BoolParam(r *http.Request, name string) bool {
	return r.URL.Query().Get(name) == "true"
}

const DateLayout = "2006-01-02"

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidClock reports whether s is a 24h HH:MM time of day.
func ValidClock(s string) bool {
	return clockRe.MatchString(s)
}
