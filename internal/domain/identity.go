package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role gates what a signed-in user may see and do.
type Role string

const (
	RoleConsumer   Role = "consumer"
	RoleAdvertiser Role = "advertiser"
	RoleAdmin      Role = "admin"
)

// ErrUnknownRole is returned when a role string is not one of the known roles.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole normalises and validates a role typed by a person.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleAdvertiser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// UnmarshalJSON accepts only the exact lowercase role names; "ADMIN" is not
// an admin.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	role := Role(raw)
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	*r = role
	return nil
}

// UserID is the user identifier carried by a credential. The API issues
// numbers; strings are accepted too.
type UserID string

// UnmarshalJSON accepts a JSON number or a non-empty JSON string.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return errors.New("empty user id")
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// MarshalJSON writes canonical integral ids back as numbers. Forms such as
// "007" or "+5" stay strings.
func (id UserID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int64(); ok && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Int64 returns the numeric form of the id when it has one.
func (id UserID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id UserID) String() string { return string(id) }

// Identity is the {id, role} pair derived from a credential.
type Identity struct {
	ID        UserID     `json:"id"`
	Role      Role       `json:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the credential carried an expiry that has passed.
// Credentials without one never expire client-side.
func (i Identity) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}
