// internal/domain/models/organization.go
package models

import (
	"time"
)

// Plans an organization can be on.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Subscription statuses recorded after the billing flow.
const (
	SubscriptionTrialing  = "trialing"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
)

// Organization is the local mirror of a tenant created in the identity provider.
// ID is the provider's organization id, so it is a string rather than an ObjectID.
type Organization struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	Plan      string    `bson:"plan" json:"plan"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	SubscriptionStatus string     `bson:"subscription_status,omitempty" json:"subscription_status,omitempty"`
	TrialEndsAt        *time.Time `bson:"trial_ends_at,omitempty" json:"trial_ends_at,omitempty"`
	SubscriptionCode   string     `bson:"subscription_code,omitempty" json:"subscription_code,omitempty"`
	CustomerCode       string     `bson:"customer_code,omitempty" json:"customer_code,omitempty"`
	UpdatedAt          *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
