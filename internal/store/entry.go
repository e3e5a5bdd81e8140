package store

import "time"

// Entry is one rendered chart artifact.
//
// Zero value of ExpiresAt means "no expiration".
type Entry struct {
	Data        []byte
	ContentType string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// IsExpired checks whether the entry is expired at the given time.
func (e Entry) IsExpired(now time.Time) bool {
	if e.ExpiresAt.IsZero() {
		return false
	}
	return now.After(e.ExpiresAt)
}
