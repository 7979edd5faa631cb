package apiclient

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/directory-client/internal/domain"
	"github.com/spec-kit/directory-client/internal/fakeapi"
	"github.com/spec-kit/directory-client/internal/observability"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

type staticCredential struct {
	mu    sync.Mutex
	value string
}

func (s *staticCredential) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.value != ""
}

func (s *staticCredential) set(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

type fixture struct {
	api     *fakeapi.Server
	client  *Client
	creds   *staticCredential
	metrics *observability.Metrics
	expired int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := fakeapi.New()
	api.Start()
	t.Cleanup(func() { _ = api.Close() })

	f := &fixture{api: api, creds: &staticCredential{}, metrics: observability.NewMetrics()}
	f.client = New(Options{
		BaseURL:        fakeapi.BaseURL,
		Timeout:        5 * time.Second,
		Credentials:    f.creds,
		Metrics:        f.metrics,
		HTTPClient:     api.HTTPClient(),
		OnUnauthorized: func(context.Context) { f.expired++ },
	})
	return f
}

func (f *fixture) signIn(t *testing.T, email string) {
	t.Helper()
	credential, err := f.api.Credential(email)
	require.NoError(t, err)
	f.creds.set(credential)
}

func TestLogin_ReturnsCredential(t *testing.T) {
	f := newFixture(t)

	credential, err := f.client.Login(context.Background(), "admin@directory.test", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(credential, ".")))

	last, ok := f.api.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/auth/login", last.Path)
	assert.Empty(t, last.Authorization)
	assert.NotEmpty(t, last.RequestID)
}

func TestLogin_WrongPasswordIsUnauthorizedWithoutExpiringSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), "admin@directory.test", "nope")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, "Email ou senha inválidos", err.Error())
	assert.Equal(t, 0, f.expired)
}

func TestLogin_ValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), " ", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Empty(t, f.api.Requests())
}

func TestAuthenticatedCall_SendsBearer(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ana@directory.test")

	_, err := f.client.ListFavorites(context.Background())
	require.NoError(t, err)

	last, _ := f.api.LastRequest()
	credential, _ := f.creds.Credential()
	assert.Equal(t, "Bearer "+credential, last.Authorization)
}

func TestUnauthorized_InvokesHook(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "admin@directory.test")
	f.api.RejectAll(true)

	_, err := f.client.AdminStats(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, 1, f.expired)
}

func TestUnauthorized_NoHookWithoutCredential(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.AdminStats(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	assert.Equal(t, 0, f.expired)
}

func TestForbidden_MapsToDomainError(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ana@directory.test")

	_, err := f.client.ListPricing(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Equal(t, int64(1), f.metrics.Snapshot().Errors["/admin/pricing|GET|FORBIDDEN"])
}

func TestDirectoryReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.client.SearchAdvertisers(ctx, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := f.client.SearchAdvertisers(ctx, domain.SearchFilter{Query: "padaria", CityID: 3})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Padaria Central", hits[0].BusinessName)

	adv, err := f.client.GetAdvertiser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rua A, 10", adv.Address)
	assert.Len(t, adv.Items, 1)

	_, err = f.client.GetAdvertiser(ctx, 99)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	top, err := f.client.TopAdvertisers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), top[0].ID)

	reviews, err := f.client.ListReviews(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestSearch_EncodesFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.SearchAdvertisers(context.Background(), domain.SearchFilter{Query: "pão doce", CategoryID: 4})
	require.NoError(t, err)
	last, _ := f.api.LastRequest()
	assert.Equal(t, "/advertiser/", last.Path)
	assert.Contains(t, last.Query, "category_id=4")
	assert.Contains(t, last.Query, "query=p%C3%A3o+doce")
	assert.NotContains(t, last.Query, "city_id")
}

func TestLogin_NeverSendsCurrentCredential(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "ana@directory.test")

	_, err := f.client.Login(context.Background(), "ana@directory.test", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	last, _ := f.api.LastRequest()
	assert.Empty(t, last.Authorization)
	assert.Equal(t, 0, f.expired)
}

func TestReviews_CreateValidatesAndPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, apperrors.HasCode(f.client.CreateReview(ctx, 1, 0, "x"), apperrors.CodeValidation))
	assert.True(t, apperrors.HasCode(f.client.CreateReview(ctx, 1, 6, "x"), apperrors.CodeValidation))
	assert.True(t, apperrors.HasCode(f.client.CreateReview(ctx, 1, 5, "  "), apperrors.CodeValidation))

	f.signIn(t, "ana@directory.test")
	require.NoError(t, f.client.CreateReview(ctx, 1, 4, "Bom atendimento"))

	reviews, err := f.client.ListReviews(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, "Bom atendimento", reviews[1].Comment)
}

func TestFavorites_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "ana@directory.test")

	fav, err := f.client.IsFavorite(ctx, 2)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, f.client.AddFavorite(ctx, 2))
	fav, err = f.client.IsFavorite(ctx, 2)
	require.NoError(t, err)
	assert.True(t, fav)

	list, err := f.client.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)

	require.NoError(t, f.client.RemoveFavorite(ctx, 2))
	list, err = f.client.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdmin_Operations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "admin@directory.test")

	stats, err := f.client.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAdvertisers)
	assert.Equal(t, 1, stats.PendingReports)

	_, err = f.client.UpdatePricing(ctx, "weekly", 10)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = f.client.UpdatePricing(ctx, domain.PlanMonthly, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	msg, err := f.client.UpdatePricing(ctx, domain.PlanMonthly, 39.9)
	require.NoError(t, err)
	assert.Contains(t, msg, "monthly")

	pricing, err := f.client.ListPricing(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, pricing)
	assert.Equal(t, 39.9, pricing[0].Price)

	require.NoError(t, f.client.ResolveReport(ctx, 1))
	reports, err := f.client.ListReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, "resolved", reports[0].Status)

	require.NoError(t, f.client.ToggleAdvertiser(ctx, 2))
	active, err := f.client.SearchAdvertisers(ctx, domain.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	plans, err := f.client.ListPlans(ctx)
	require.NoError(t, err)
	assert.Contains(t, plans, "annual")
	assert.Greater(t, plans["annual"].SavingsAmount, 0.0)

	f.signIn(t, "shop@directory.test")
	intent, err := f.client.Subscribe(ctx, domain.PlanAnnual)
	require.NoError(t, err)
	assert.Equal(t, "advertiser-1", intent.ReferenceID)
	assert.NotEmpty(t, intent.Plan.PaymentURL)

	info, err := f.client.PaymentInfo(ctx, domain.PlanMonthly)
	require.NoError(t, err)
	require.NotNil(t, info.PaymentMethods.Pix)
	assert.Equal(t, "pix@directory.test", info.PaymentMethods.Pix.Key)

	conf, err := f.client.ConfirmPayment(ctx, domain.PlanMonthly, "pix")
	require.NoError(t, err)
	assert.Equal(t, "pay-monthly", conf.PaymentID)

	status, err := f.client.SubscriptionStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.IsActive)

	_, err = f.client.Subscribe(ctx, "lifetime")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.client.RegisterAdvertiser(ctx, domain.AdvertiserRegistration{Email: "x@y"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Len(t, domainErr.Details["missing"], 5)

	msg, err := f.client.RegisterAdvertiser(ctx, domain.AdvertiserRegistration{
		Email: "new@shop", Password: "p", Name: "N", BirthDate: "1990-01-01", CPF: "123", BusinessName: "Nova Loja",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	msg, err = f.client.RegisterConsumer(ctx, domain.ConsumerRegistration{Email: "c@x", Password: "p", Name: "C"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = f.client.RegisterConsumer(ctx, domain.ConsumerRegistration{Email: "c@x", Password: "p", Name: "C"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestBetaStatus(t *testing.T) {
	f := newFixture(t)

	status, err := f.client.BetaStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsBeta)
	require.NotNil(t, status.MigrationNotice)
}

func TestNetworkFailure(t *testing.T) {
	client := New(Options{
		BaseURL: "http://unreachable.test",
		Timeout: time.Second,
		HTTPClient: &fasthttp.Client{Dial: func(string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		}},
	})

	_, err := client.TopAdvertisers(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNetworkFailure))
}

func TestCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client.TopAdvertisers(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNetworkFailure))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.api.Requests())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "flat", errorMessage([]byte(`{"error":"flat"}`)))
	assert.Equal(t, "nested", errorMessage([]byte(`{"error":{"code":"X","message":"nested"}}`)))
	assert.Equal(t, "msg", errorMessage([]byte(`{"message":"msg"}`)))
	assert.Equal(t, "", errorMessage([]byte(`Cannot GET /x`)))
}
