package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pratik-mahalle/arcgate/internal/api/handlers"
	"github.com/pratik-mahalle/arcgate/internal/api/router"
	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/pkg/validator"
	"github.com/pratik-mahalle/arcgate/internal/providers"
	"github.com/pratik-mahalle/arcgate/internal/repository/memory"
	"github.com/pratik-mahalle/arcgate/internal/repository/postgres"
	redisrepo "github.com/pratik-mahalle/arcgate/internal/repository/redis"
	"github.com/pratik-mahalle/arcgate/internal/services"
	"github.com/pratik-mahalle/arcgate/internal/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84/webhook"
)

const webhookSecret = "whsec_integration"

// fakeStripe answers the two Stripe endpoints the gateway calls
type fakeStripe struct {
	customers atomic.Int64
	checkouts atomic.Int64
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/v1/customers":
		n := f.customers.Add(1)
		fmt.Fprintf(w, `{"id":"cus_%d","object":"customer"}`, n)
	case "/v1/checkout/sessions":
		n := f.checkouts.Add(1)
		fmt.Fprintf(w, `{"id":"cs_test_%d","object":"checkout.session","mode":"subscription"}`, n)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"type":"invalid_request_error","message":"not found"}}`)
	}
}

// fakeOpenAI echoes the requested model back
func fakeOpenAI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{
		"id": "chatcmpl-it",
		"object": "chat.completion",
		"created": 1700000000,
		"model": %q,
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "answer from %s"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 1, "completion_tokens": 3, "total_tokens": 4}
	}`, req.Model, req.Model)
}

type stack struct {
	server *httptest.Server
	stripe *fakeStripe
	users  *postgres.UserRepository
}

type storeFactory func(t *testing.T) (session.Store, session.Locker)

func memoryStores(t *testing.T) (session.Store, session.Locker) {
	return memory.NewSessionStore(100, time.Hour), memory.NewLocker(100, time.Minute)
}

func redisStores(t *testing.T) (session.Store, session.Locker) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisrepo.NewSessionStore(client), redisrepo.NewLocker(client)
}

// newStack wires the real services, repositories and providers behind the
// router, with Stripe and OpenAI replaced by local fakes
func newStack(t *testing.T, stores storeFactory) *stack {
	t.Helper()

	fs := &fakeStripe{}
	stripeSrv := httptest.NewServer(fs)
	t.Cleanup(stripeSrv.Close)

	openaiSrv := httptest.NewServer(http.HandlerFunc(fakeOpenAI))
	t.Cleanup(openaiSrv.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{FrontendURL: "http://localhost:3000", PublicURL: "http://localhost:3000"},
		Session: config.SessionConfig{Secret: "integration-secret", CookieName: "arc_session", TTL: time.Hour},
		Billing: config.BillingConfig{
			StripeSecretKey:     "sk_test_integration",
			StripeWebhookSecret: webhookSecret,
			StripeAPIURL:        stripeSrv.URL,
			Currency:            "gbp",
			UnitAmount:          50,
			ProductName:         "arc-plus Access",
			Interval:            "week",
			CheckoutLockTTL:     30 * time.Second,
		},
		OpenAI: config.OpenAIConfig{
			APIKey:    "sk-integration",
			BaseURL:   openaiSrv.URL + "/v1",
			CoreModel: "gpt-4o-mini",
			PlusModel: "gpt-4-turbo",
			MaxTokens: 50,
		},
	}

	log := testutil.NewTestLogger()
	userRepo := postgres.NewUserRepository(testutil.NewTestDB(t))
	sessionStore, locker := stores(t)

	userService := services.NewUserService(userRepo, log)
	sessionService := services.NewSessionService(userService, sessionStore, cfg.Session.Secret, cfg.Session.TTL, log)
	billingService := services.NewBillingService(userRepo, providers.NewStripeGateway(cfg.Billing), locker, cfg.Billing.CheckoutLockTTL, log)
	completionService := services.NewCompletionService(providers.NewOpenAIClient(cfg.OpenAI), userRepo, cfg.OpenAI, log)

	landing, err := handlers.NewLandingHandler("pk_test", log)
	require.NoError(t, err)

	h := router.New(cfg, log, sessionService, &router.Handlers{
		Health:     handlers.NewHealthHandler(map[string]handlers.Checker{"users": userRepo.Ping}, log),
		Auth:       handlers.NewAuthHandler(sessionService, userService, handlers.CookieConfig{Name: cfg.Session.CookieName, TTL: cfg.Session.TTL}, log, validator.New()),
		Billing:    handlers.NewBillingHandler(billingService, cfg.Server.PublicURL, log),
		Completion: handlers.NewCompletionHandler(completionService),
		Landing:    landing,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &stack{server: srv, stripe: fs, users: userRepo}
}

// newBrowser returns a client that keeps cookies like a browser
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func doPost(t *testing.T, c *http.Client, url, body string) (int, string) {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

// deliverWebhook posts a signed event the way the processor would
func deliverWebhook(t *testing.T, baseURL, secret string, event map[string]interface{}) (int, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	req, err := http.NewRequest(http.MethodPost, baseURL+"/stripe-webhook", strings.NewReader(string(signed.Payload)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func stripeEvent(id, eventType string, object map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": "2024-06-20",
		"created":     time.Now().Unix(),
		"data":        map[string]interface{}{"object": object},
	}
}
