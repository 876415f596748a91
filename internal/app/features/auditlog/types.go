// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/store/audit"
)

// listItem represents a single audit event row.
type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	OrgID         string            `json:"orgId,omitempty"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ActorID       string            `json:"actorId,omitempty"`
	UserID        string            `json:"userId,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// listData is the response body for the audit log list.
type listData struct {
	Items []listItem `json:"items"`

	// Filters echoed back
	Category  string `json:"category,omitempty"`
	EventType string `json:"eventType,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	// Filter options
	Categories []categoryOption `json:"categories"`
	EventTypes []string         `json:"eventTypes"`

	// Pagination
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAdmin, Label: "Administration"},
		{Value: audit.CategoryActivity, Label: "Activity"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	adminEvents := []string{
		audit.EventOrgProvisioned,
		audit.EventOrgProvisionFailed,
		audit.EventChecklistSaved,
		audit.EventDriverAdded,
		audit.EventDriverDeleted,
		audit.EventVehicleAdded,
		audit.EventVehicleDeleted,
		audit.EventSubscriptionCreated,
		audit.EventSubscriptionFailed,
	}

	activityEvents := []string{
		audit.EventReportSubmitted,
		audit.EventOrgSelected,
	}

	switch category {
	case audit.CategoryAdmin:
		return adminEvents
	case audit.CategoryActivity:
		return activityEvents
	case "":
		all := make([]string, 0, len(adminEvents)+len(activityEvents))
		all = append(all, adminEvents...)
		all = append(all, activityEvents...)
		return all
	default:
		return nil
	}
}
