package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/directory-client/internal/domain"
)

// ErrMalformedCredential is the single outcome of any failed decode step.
var ErrMalformedCredential = errors.New("malformed credential")

// Claims describes the credential payload fields the client reads.
// Pointer fields distinguish "absent" from zero values: admin carries user_id 0.
// Exp is kept raw; an unreadable expiry is ignored rather than failing the
// decode.
type Claims struct {
	UserID   *domain.UserID  `json:"user_id"`
	UserType *domain.Role    `json:"user_type"`
	Exp      json.RawMessage `json:"exp,omitempty"`
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeIdentity derives the identity carried by a credential's payload
// segment. The signature is not checked; the API is the trust boundary.
func DecodeIdentity(credential string) (domain.Identity, error) {
	segments := strings.Split(strings.TrimSpace(credential), ".")
	if len(segments) != 3 {
		return domain.Identity{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedCredential, len(segments))
	}

	payload, err := segmentParser.DecodeSegment(segments[1])
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: payload encoding: %v", ErrMalformedCredential, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: payload: %v", ErrMalformedCredential, err)
	}
	if claims.UserID == nil {
		return domain.Identity{}, fmt.Errorf("%w: missing user_id", ErrMalformedCredential)
	}
	if claims.UserType == nil {
		return domain.Identity{}, fmt.Errorf("%w: missing user_type", ErrMalformedCredential)
	}

	identity := domain.Identity{ID: *claims.UserID, Role: *claims.UserType}
	identity.ExpiresAt = expiry(claims.Exp)
	return identity, nil
}

// expiry reads a NumericDate exp claim, or returns nil when it is absent or
// not a number.
func expiry(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var date jwt.NumericDate
	if err := date.UnmarshalJSON(raw); err != nil {
		return nil
	}
	exp := date.Time
	return &exp
}

// IssueCredential signs a credential for identity. The client never issues
// credentials against the real API; this backs fixtures and the local fake.
func IssueCredential(secret string, identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   identity.ID,
		"user_type": identity.Role,
		"sub":       identity.ID.String(),
		"iat":       jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims["exp"] = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
