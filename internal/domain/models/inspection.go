// internal/domain/models/inspection.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item statuses. StatusNotOK is what an unanswered item is recorded as.
const (
	StatusOK          = "Ok"
	StatusNeedsRepair = "Needs Repair"
	StatusNotOK       = "not ok"
)

// Final verdicts.
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// InspectionItemWithStatus is a checklist item snapshot plus the answer given.
type InspectionItemWithStatus struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Description  string `bson:"description" json:"description"`
	CategoryID   string `bson:"category_id" json:"category_id"`
	CategoryName string `bson:"category_name" json:"category_name"`
	Status       string `bson:"status" json:"status"`
	Notes        string `bson:"notes" json:"notes"`
}

// InspectionReport is an immutable record of one submitted checklist.
// Items are denormalized so later checklist edits never change history.
type InspectionReport struct {
	ID                  primitive.ObjectID         `bson:"_id" json:"id"`
	OrgID               string                     `bson:"org_id" json:"-"`
	VehicleRegistration string                     `bson:"vehicle_registration" json:"vehicle_registration"`
	DriverName          string                     `bson:"driver_name" json:"driver_name"`
	CurrentOdometer     *int64                     `bson:"current_odometer" json:"current_odometer"`
	InspectedBy         string                     `bson:"inspected_by" json:"inspected_by"`
	FinalVerdict        string                     `bson:"final_verdict" json:"final_verdict"`
	Items               []InspectionItemWithStatus `bson:"items" json:"items"`
	SubmittedBy         string                     `bson:"submitted_by" json:"submitted_by"`
	SubmittedAt         time.Time                  `bson:"submitted_at" json:"submitted_at"`
}
