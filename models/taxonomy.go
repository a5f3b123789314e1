package models

import "time"

type Tag struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Slug            string    `json:"slug" bson:"slug"`
	SortOrder       int       `json:"sortOrder" bson:"sortOrder"`
	Active          bool      `json:"active" bson:"active"`
	MetaTitle       string    `json:"metaTitle,omitempty" bson:"metaTitle,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty" bson:"metaDescription,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

type FilterGroup struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Slug      string       `json:"slug" bson:"slug"`
	SortOrder int          `json:"sortOrder" bson:"sortOrder"`
	Visible   bool         `json:"visible" bson:"visible"`
	Items     []FilterItem `json:"items,omitempty" bson:"-"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt" bson:"updatedAt"`
}

type FilterItem struct {
	ID        string    `json:"id" bson:"_id"`
	GroupID   string    `json:"groupId" bson:"groupId"`
	Name      string    `json:"name" bson:"name"`
	Slug      string    `json:"slug" bson:"slug"`
	SortOrder int       `json:"sortOrder" bson:"sortOrder"`
	Visible   bool      `json:"visible" bson:"visible"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
