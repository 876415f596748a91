// internal/domain/models/checklist.go
package models

import "time"

// Item is a single inspection point within a category.
type Item struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
}

// Category groups ordered items under a display name and icon.
type Category struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Icon  string `bson:"icon" json:"icon"`
	Items []Item `bson:"items" json:"items"`
}

// Checklist is the one-per-organization inspection template.
// The document _id is the organization id. Array order is display order.
type Checklist struct {
	OrgID      string     `bson:"_id" json:"org_id"`
	Categories []Category `bson:"categories" json:"categories"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}
