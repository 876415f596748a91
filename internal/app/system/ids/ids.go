// Package ids generates identifiers that are not Mongo ObjectIDs.
package ids

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// Reference returns a sortable, unique payment reference ("fc_" + ULID).
func Reference() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "fc_" + strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// ChecklistID returns a random id for a new category or item.
func ChecklistID() string {
	return uuid.NewString()
}
