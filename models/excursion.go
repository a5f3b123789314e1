package models

import "time"

// ExcursionCard is the marketing record for one excursion.
type ExcursionCard struct {
	ID           string    `json:"id" bson:"_id"`
	Title        string    `json:"title" bson:"title"`
	SEOTitle     string    `json:"seoTitle,omitempty" bson:"seoTitle,omitempty"`
	Description  string    `json:"description" bson:"description"`
	Images       []string  `json:"images" bson:"images"`
	VideoURL     string    `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Reviews      []Review  `json:"reviews" bson:"reviews"`
	Attractions  []string  `json:"attractions" bson:"attractions"`
	Tags         []string  `json:"tags" bson:"tags"`
	FilterItems  []string  `json:"filterItems" bson:"filterItems"`
	Published    bool      `json:"published" bson:"published"`
	Slug         string    `json:"slug" bson:"slug"`
	ProductID    string    `json:"productId,omitempty" bson:"productId,omitempty"`
	MeetingPlace string    `json:"meetingPlace,omitempty" bson:"meetingPlace,omitempty"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	Duration     Duration  `json:"duration" bson:"duration"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Review struct {
	Author string `json:"author" bson:"author"`
	Text   string `json:"text" bson:"text"`
	Rating int    `json:"rating" bson:"rating"`
}

type Duration struct {
	Hours   int `json:"hours" bson:"hours"`
	Minutes int `json:"minutes" bson:"minutes"`
}
