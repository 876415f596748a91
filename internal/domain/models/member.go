// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is an organization-scoped reference to an invited user.
// Role is fixed when the invitation is issued.
type Member struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	OrgID     string             `bson:"org_id" json:"org_id"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"` // org:admin | org:member
	CreatedBy string             `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
