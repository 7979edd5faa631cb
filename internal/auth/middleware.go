package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directory-client/internal/domain"
)

const snapshotKey = "session_snapshot"

// Principal is the session state a request runs under. It mirrors
// session.Snapshot so this package does not import the session manager.
type Principal struct {
	Credential string
	Identity   *domain.Identity
}

// Authenticated reports whether an identity is present.
func (p Principal) Authenticated() bool {
	return p.Identity != nil
}

// SessionSource yields the current session for each request.
type SessionSource interface {
	Principal() Principal
}

// SessionMiddleware copies the current session into the request locals, so
// every handler in a request sees one consistent state even if the session
// changes mid-request.
func SessionMiddleware(source SessionSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(snapshotKey, source.Principal())
		return c.Next()
	}
}

// PrincipalFromContext retrieves the session captured for this request.
func PrincipalFromContext(c *fiber.Ctx) (Principal, bool) {
	val := c.Locals(snapshotKey)
	if val == nil {
		return Principal{}, false
	}
	principal, ok := val.(Principal)
	return principal, ok
}
