// internal/domain/models/fleet.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Driver is an organization-scoped roster entry, ordered by name.
type Driver struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	OrgID     string             `bson:"org_id" json:"-"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Vehicle is an organization-scoped roster entry, ordered by registration.
type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	OrgID        string             `bson:"org_id" json:"-"`
	Registration string             `bson:"registration" json:"registration"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Position returns the keyset position used for roster paging.
func (d Driver) Position() (time.Time, primitive.ObjectID) { return d.CreatedAt, d.ID }

// Value returns the roster field.
func (d Driver) Value() string { return d.Name }

// Position returns the keyset position used for roster paging.
func (v Vehicle) Position() (time.Time, primitive.ObjectID) { return v.CreatedAt, v.ID }

// Value returns the roster field.
func (v Vehicle) Value() string { return v.Registration }
