package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the resolved record for an authenticated user. Exactly one User is
// active at a time, owned by State; the record cache may hold snapshots of
// any user the session has observed.
type User struct {
	UserID         string         `json:"userId"`
	Email          string         `json:"email"`
	Role           UserRole       `json:"role,omitempty"`
	Username       string         `json:"username,omitempty"`
	FirstName      string         `json:"firstName,omitempty"`
	LastName       string         `json:"lastName,omitempty"`
	ProfilePicture string         `json:"profilePicture,omitempty"`
	EmailVerified  bool           `json:"emailVerified,omitempty"`
	Geo            *GeoData       `json:"geo,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	LastSeenAt     *time.Time     `json:"lastSeenAt,omitempty"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

// GeoData is the last known location info attached by upstream services.
type GeoData struct {
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
	City     string `json:"city,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// UUID parses the UserID as a uuid, for callers that key storage by uuid.
func (u *User) UUID() (uuid.UUID, error) {
	return uuid.Parse(u.UserID)
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// AddMetadata appends information to the metadata attribute.
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// Clone returns a deep-enough copy for snapshot semantics: top-level fields
// are copied and the metadata map is duplicated so a cached snapshot can
// never be patched through an aliased reference.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Metadata != nil {
		clone.Metadata = make(map[string]any, len(u.Metadata))
		for k, v := range u.Metadata {
			clone.Metadata[k] = v
		}
	}
	if u.Geo != nil {
		geo := *u.Geo
		clone.Geo = &geo
	}
	return &clone
}
