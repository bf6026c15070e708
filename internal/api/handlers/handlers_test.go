package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/api/middleware"
	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/billing"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/validator"
	"github.com/pratik-mahalle/arcgate/internal/repository/memory"
	"github.com/pratik-mahalle/arcgate/internal/services"
	"github.com/pratik-mahalle/arcgate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const cookieName = "arc_session"

type testEnv struct {
	repo       *testutil.MockUserRepository
	gateway    *testutil.MockGateway
	client     *testutil.MockCompletionClient
	sessions   *services.SessionService
	auth       *AuthHandler
	billing    *BillingHandler
	completion *CompletionHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := testutil.NewTestLogger()
	repo := testutil.NewMockUserRepository()
	gateway := &testutil.MockGateway{}
	client := &testutil.MockCompletionClient{}

	users := services.NewUserService(repo, log)
	sessions := services.NewSessionService(users, memory.NewSessionStore(100, time.Hour), "secret", time.Hour, log)
	billingSvc := services.NewBillingService(repo, gateway, memory.NewLocker(100, time.Minute), 30*time.Second, log)
	completions := services.NewCompletionService(client, repo, config.OpenAIConfig{
		CoreModel: "gpt-4o-mini", PlusModel: "gpt-4-turbo", MaxTokens: 50,
	}, log)

	return &testEnv{
		repo:       repo,
		gateway:    gateway,
		client:     client,
		sessions:   sessions,
		auth:       NewAuthHandler(sessions, users, CookieConfig{Name: cookieName, TTL: time.Hour}, log, validator.New()),
		billing:    NewBillingHandler(billingSvc, "http://public.example", log),
		completion: NewCompletionHandler(completions),
	}
}

// serve runs h behind the session loader, as the router does
func (e *testEnv) serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.SessionLoader(e.sessions, cookieName)(h).ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, email string) (*http.Cookie, *user.User) {
	t.Helper()
	token, u, err := e.sessions.Login(context.Background(), email)
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: token}, u
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "missing email", body: `{}`, expectedStatus: http.StatusBadRequest, expectedBody: "Email is required"},
		{name: "empty body", body: ``, expectedStatus: http.StatusBadRequest, expectedBody: "Email is required"},
		{name: "invalid email", body: `{"email":"nope"}`, expectedStatus: http.StatusBadRequest, expectedBody: "Email is invalid"},
		{name: "malformed json", body: `{"email":`, expectedStatus: http.StatusBadRequest, expectedBody: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.serve(env.auth.Login, jsonRequest(http.MethodPost, "/login", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
			assert.Empty(t, env.repo.Users)
		})
	}
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(env.auth.Login, jsonRequest(http.MethodPost, "/login", `{"email":"a@x.com"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string                 `json:"message"`
		User    map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Logged in", body.Message)
	assert.Equal(t, "a@x.com", body.User["email"])
	assert.Equal(t, false, body.User["isPremium"])
	assert.Contains(t, body.User, "billingCustomerId")
	assert.Nil(t, body.User["billingCustomerId"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	// the cookie opens a session
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookies[0])
	me := env.serve(env.auth.Me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"email":"a@x.com"`)
}

func TestAuthHandler_MeReadsFreshUser(t *testing.T) {
	env := newTestEnv(t)
	cookie, u := env.login(t, "a@x.com")

	stored := env.repo.Get(u.ID)
	stored.GrantPremium("sub_1")
	require.NoError(t, env.repo.Upsert(context.Background(), stored))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	rec := env.serve(env.auth.Me, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got user.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.IsPremium)
	assert.Equal(t, "sub_1", got.SubscriptionID())
}

func TestAuthHandler_MeWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.serve(env.auth.Me, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", rec.Body.String())
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t)
	cookie, _ := env.login(t, "a@x.com")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := env.serve(env.auth.Logout, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rec.Body.String())
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// the old cookie no longer works
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusForbidden, env.serve(env.auth.Me, req).Code)
}

func TestBillingHandler_CreatePayment(t *testing.T) {
	env := newTestEnv(t)
	cookie, u := env.login(t, "a@x.com")

	env.gateway.On("CreateCustomer", mock.Anything, "a@x.com").Return("cus_123", nil).Once()
	env.gateway.On("CreateCheckoutSession", mock.Anything, billing.CheckoutRequest{
		CustomerID: "cus_123",
		SuccessURL: "https://app.example/?success=true",
		CancelURL:  "https://app.example/?canceled=true",
	}).Return("cs_1", nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/create-payment", nil)
	req.Header.Set("Origin", "https://app.example")
	req.AddCookie(cookie)
	rec := env.serve(env.billing.CreatePayment, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"cs_1"}`, rec.Body.String())
	assert.Equal(t, "cus_123", *env.repo.Get(u.ID).BillingCustomerID)
	env.gateway.AssertExpectations(t)
}

func TestBillingHandler_CreatePaymentErrors(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.serve(env.billing.CreatePayment, httptest.NewRequest(http.MethodPost, "/create-payment", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "User not logged in", rec.Body.String())
	})

	t.Run("already subscribed", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, u := env.login(t, "a@x.com")
		stored := env.repo.Get(u.ID)
		stored.GrantPremium("sub_1")
		require.NoError(t, env.repo.Upsert(context.Background(), stored))

		req := httptest.NewRequest(http.MethodPost, "/create-payment", nil)
		req.AddCookie(cookie)
		rec := env.serve(env.billing.CreatePayment, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Already subscribed", rec.Body.String())
	})

	t.Run("gateway failure", func(t *testing.T) {
		env := newTestEnv(t)
		cookie, _ := env.login(t, "a@x.com")
		env.gateway.On("CreateCustomer", mock.Anything, "a@x.com").Return("", fmt.Errorf("card_error: secret detail")).Once()

		req := httptest.NewRequest(http.MethodPost, "/create-payment", nil)
		req.AddCookie(cookie)
		rec := env.serve(env.billing.CreatePayment, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Payment gateway error", rec.Body.String())
	})
}

func TestBillingHandler_Origin(t *testing.T) {
	h := NewBillingHandler(nil, "http://public.example", testutil.NewTestLogger())

	tests := []struct {
		name   string
		origin string
		proto  string
		host   string
		want   string
	}{
		{name: "origin header", origin: "https://app.example", want: "https://app.example"},
		{name: "forwarded proto and host", proto: "HTTPS", host: "api.example", want: "https://api.example"},
		{name: "opaque origin falls back", origin: "null", want: "http://public.example"},
		{name: "nothing falls back to public url", want: "http://public.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/create-payment", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			assert.Equal(t, tt.want, h.origin(req))
		})
	}
}

func TestBillingHandler_Webhook(t *testing.T) {
	t.Run("invalid signature", func(t *testing.T) {
		env := newTestEnv(t)
		env.gateway.On("ParseWebhook", []byte(`{"id":"evt_1"}`), "t=1,v1=bad").
			Return(nil, fmt.Errorf("webhook had no valid signature")).Once()

		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(`{"id":"evt_1"}`))
		req.Header.Set(SignatureHeader, "t=1,v1=bad")
		rec := env.serve(env.billing.Webhook, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Webhook error: webhook had no valid signature", rec.Body.String())
	})

	t.Run("checkout completed", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.repo.Seed(&user.User{Email: "a@x.com", BillingCustomerID: testutil.StringPtr("cus_123")})
		env.gateway.On("ParseWebhook", mock.Anything, "t=1,v1=ok").Return(&billing.Event{
			ID: "evt_1", Type: billing.EventCheckoutCompleted, CustomerID: "cus_123", SubscriptionID: "sub_1",
		}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", strings.NewReader(`{}`))
		req.Header.Set(SignatureHeader, "t=1,v1=ok")
		rec := env.serve(env.billing.Webhook, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"received":true}`, rec.Body.String())
		assert.True(t, env.repo.Get(u.ID).IsPremium)
	})

	t.Run("oversized body", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/stripe-webhook", bytes.NewReader(make([]byte, MaxWebhookBodyBytes+1)))
		rec := env.serve(env.billing.Webhook, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "Webhook error: "))
		env.gateway.AssertNotCalled(t, "ParseWebhook", mock.Anything, mock.Anything)
	})
}

func TestCompletionHandler(t *testing.T) {
	env := newTestEnv(t)
	cookie, u := env.login(t, "a@x.com")

	env.client.On("Complete", mock.Anything, "gpt-4o-mini", "hello", 50).
		Return(testutil.CompletionResponse("gpt-4o-mini", "hi"), nil).Once()

	req := jsonRequest(http.MethodPost, "/api/arc-core", `{"prompt":"hello"}`)
	req.AddCookie(cookie)
	rec := env.serve(env.completion.ArcCore, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "chat.completion", body["object"])
	choices := body["choices"].([]interface{})
	require.Len(t, choices, 1)
	assert.Equal(t, "stop", choices[0].(map[string]interface{})["finish_reason"])

	// arc-plus is refused until the store says premium
	req = jsonRequest(http.MethodPost, "/api/arc-plus", `{"prompt":"hello"}`)
	req.AddCookie(cookie)
	rec = env.serve(env.completion.ArcPlus, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Arc-Plus access required", rec.Body.String())

	stored := env.repo.Get(u.ID)
	stored.GrantPremium("sub_1")
	require.NoError(t, env.repo.Upsert(context.Background(), stored))
	env.client.On("Complete", mock.Anything, "gpt-4-turbo", "hello", 50).
		Return(nil, fmt.Errorf("upstream 503")).Once()

	req = jsonRequest(http.MethodPost, "/api/arc-plus", `{"prompt":"hello"}`)
	req.AddCookie(cookie)
	rec = env.serve(env.completion.ArcPlus, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Arc-Plus API error", rec.Body.String())

	env.client.AssertExpectations(t)
}

func TestCompletionHandler_NoSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(env.completion.ArcCore, jsonRequest(http.MethodPost, "/api/arc-core", `{"prompt":"x"}`))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", rec.Body.String())

	rec = env.serve(env.completion.ArcPlus, jsonRequest(http.MethodPost, "/api/arc-plus", `{"prompt":"x"}`))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Arc-Plus access required", rec.Body.String())
}

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler(map[string]Checker{
		"users": func(ctx context.Context) error { return nil },
	}, testutil.NewTestLogger())

	rec := httptest.NewRecorder()
	healthy.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	healthy.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"users":"ok"}}`, rec.Body.String())

	broken := NewHealthHandler(map[string]Checker{
		"users":    func(ctx context.Context) error { return nil },
		"sessions": func(ctx context.Context) error { return fmt.Errorf("connection refused") },
	}, testutil.NewTestLogger())

	rec = httptest.NewRecorder()
	broken.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"users":"ok","sessions":"unavailable"}}`, rec.Body.String())
}

func TestLandingHandler(t *testing.T) {
	h, err := NewLandingHandler("pk_test_123", testutil.NewTestLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `data-stripe-key="pk_test_123"`)

	rec = httptest.NewRecorder()
	h.Static(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/create-payment")
}
