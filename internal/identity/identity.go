package identity

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the fixed wire format for createdAt. UTC with a fixed
// number of fractional digits keeps lexicographic order equal to time order,
// and the value round-trips unchanged through JSON and attribute storage.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Generator produces record identifiers and creation timestamps.
// The zero value uses the wall clock; tests may pin Clock.
type Generator struct {
	Clock func() time.Time
}

// NewID returns a random 128-bit identifier in canonical UUID form.
func (g Generator) NewID() string {
	return uuid.NewString()
}

// Now returns the current time formatted with TimestampLayout.
func (g Generator) Now() string {
	clock := g.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Format(TimestampLayout)
}
