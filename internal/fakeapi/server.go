// Package fakeapi is an in-memory stand-in for the directory REST API, served
// by fiber on a fasthttputil listener. Tests and local demos drive the client
// against it.
package fakeapi

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/directory-client/internal/auth"
	"github.com/spec-kit/directory-client/internal/domain"
)

// BaseURL is the address clients should use with HTTPClient.
const BaseURL = "http://directory.test"

const identityKey = "fake_identity"

// Account is a login known to the fake. Passwords are kept as bcrypt hashes.
type Account struct {
	PasswordHash []byte
	Identity     domain.Identity
}

func newAccount(password string, identity domain.Identity) Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return Account{PasswordHash: hash, Identity: identity}
}

func (a Account) checkPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) == nil
}

// RecordedRequest is what the fake saw of one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

// Server is the fake directory API.
type Server struct {
	App    *fiber.App
	Secret string

	mu          sync.Mutex
	accounts    map[string]Account
	advertisers []domain.Advertiser
	reviews     map[int64][]domain.Review
	favorites   map[domain.UserID]map[int64]bool
	pricing     map[domain.PlanType]float64
	reports     []domain.Report
	requests    []RecordedRequest
	rejectAll   bool
	issueRaw    string

	ln *fasthttputil.InmemoryListener
}

// New builds a seeded fake.
func New() *Server {
	s := &Server{
		Secret: "fake-directory-secret",
		accounts: map[string]Account{
			"admin@directory.test":       newAccount("admin-pass", domain.Identity{ID: "0", Role: domain.RoleAdmin}),
			"shop@directory.test":        newAccount("shop-pass", domain.Identity{ID: "1", Role: domain.RoleAdvertiser}),
			"ana@directory.test":         newAccount("ana-pass", domain.Identity{ID: "42", Role: domain.RoleConsumer}),
			"advertiser2@directory.test": newAccount("adv2-pass", domain.Identity{ID: "2", Role: domain.RoleAdvertiser}),
		},
		advertisers: []domain.Advertiser{
			{
				AdvertiserSummary: domain.AdvertiserSummary{ID: 1, BusinessName: "Padaria Central", Description: "Pães e doces", City: "Recife", Category: "Alimentação", AverageRating: 4.5},
				Address:           "Rua A, 10",
				IsActive:          true,
				MaxItems:          10,
				Items:             []domain.Item{{ID: 1, Title: "Pão francês", Price: 0.8}},
			},
			{
				AdvertiserSummary: domain.AdvertiserSummary{ID: 2, BusinessName: "Oficina do Zé", Description: "Mecânica geral", City: "Olinda", Category: "Serviços", AverageRating: 3.9},
				IsActive:          true,
				MaxItems:          5,
			},
		},
		reviews: map[int64][]domain.Review{
			1: {{ID: 1, Rating: 5, Comment: "Ótimo pão", UserName: "Ana"}},
		},
		favorites: map[domain.UserID]map[int64]bool{},
		pricing: map[domain.PlanType]float64{
			domain.PlanMonthly:    29.9,
			domain.PlanSemiannual: 149.9,
			domain.PlanAnnual:     269.9,
		},
		reports: []domain.Report{{ID: 1, AdvertiserID: 2, Reason: "spam", Status: "pending"}},
	}
	s.App = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.routes()
	return s
}

// Start serves the fake on an in-memory listener.
func (s *Server) Start() {
	s.ln = fasthttputil.NewInmemoryListener()
	go func() {
		_ = s.App.Listener(s.ln)
	}()
}

// HTTPClient returns a fasthttp client wired to the in-memory listener.
func (s *Server) HTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			if s.ln == nil {
				return nil, errors.New("fakeapi: not started")
			}
			return s.ln.Dial()
		},
	}
}

// Close stops the fake.
func (s *Server) Close() error {
	return s.App.Shutdown()
}

// Credential issues a valid credential for a seeded account.
func (s *Server) Credential(email string) (string, error) {
	s.mu.Lock()
	acct, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok {
		return "", errors.New("fakeapi: unknown account " + email)
	}
	return auth.IssueCredential(s.Secret, acct.Identity, time.Hour)
}

// RejectAll makes every authenticated route answer 401, as when the
// credential expired server-side.
func (s *Server) RejectAll(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectAll = reject
}

// IssueRaw makes login return raw instead of a signed credential.
func (s *Server) IssueRaw(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issueRaw = raw
}

// Requests returns the requests seen so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(c *fiber.Ctx) error {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        c.Method(),
		Path:          c.Path(),
		Query:         string(c.Request().URI().QueryString()),
		Authorization: c.Get(fiber.HeaderAuthorization),
		RequestID:     c.Get("X-Request-ID"),
	})
	s.mu.Unlock()
	return c.Next()
}

// requireRole verifies the bearer signature and expiry, then checks the role.
// An empty role list admits any signed-in user.
func (s *Server) requireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.mu.Lock()
		reject := s.rejectAll
		s.mu.Unlock()
		if reject {
			return fail(c, http.StatusUnauthorized, "Token expirado")
		}

		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fail(c, http.StatusUnauthorized, "Missing Authorization Header")
		}

		_, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(s.Secret), nil
		})
		if err != nil {
			return fail(c, http.StatusUnauthorized, "Token inválido")
		}
		identity, err := auth.DecodeIdentity(parts[1])
		if err != nil {
			return fail(c, http.StatusUnauthorized, "Token inválido")
		}
		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if identity.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				return fail(c, http.StatusForbidden, "Não autorizado")
			}
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func identityFrom(c *fiber.Ctx) domain.Identity {
	identity, _ := c.Locals(identityKey).(domain.Identity)
	return identity
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
