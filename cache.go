package session

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// RecordCache keeps the last known full record for every user the session
// has observed, keyed by user id. Entries are immutable snapshots: a later
// write fully replaces the prior one, never patches it. There is no
// eviction; the cache is bounded by process lifetime.
type RecordCache struct {
	records *xsync.MapOf[string, *User]
}

// NewRecordCache returns an empty record cache.
func NewRecordCache() *RecordCache {
	return &RecordCache{
		records: xsync.NewMapOf[string, *User](),
	}
}

// Put stores a snapshot of the record. Records without a user id are
// ignored; they cannot be keyed.
func (c *RecordCache) Put(user *User) {
	if user == nil || user.UserID == "" {
		return
	}
	c.records.Store(user.UserID, user.Clone())
}

// Get returns a copy of the last stored snapshot for the user id. Mutating
// the result never patches the cached record.
func (c *RecordCache) Get(userID string) (*User, bool) {
	user, ok := c.records.Load(userID)
	if !ok {
		return nil, false
	}
	return user.Clone(), true
}

// Len reports how many records the cache holds.
func (c *RecordCache) Len() int {
	return c.records.Size()
}
