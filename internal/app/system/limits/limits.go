// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxJSONBody bounds JSON request bodies. A full checklist with a few
	// hundred items stays well under it.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxFormBody bounds urlencoded and multipart form posts.
	MaxFormBody = 512 << 10 // 512 KB

	// MaxNameLength bounds checklist names, driver names and registrations.
	MaxNameLength = 200

	// MaxNotesLength bounds checklist item descriptions.
	MaxNotesLength = 2000

	// MaxReportNotesLength bounds the notes on one inspected item.
	MaxReportNotesLength = 200
)
