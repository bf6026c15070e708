package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/arcgate/internal/domain/billing"
	"github.com/pratik-mahalle/arcgate/internal/domain/completion"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is an in-memory user.Repository. It hands out copies,
// like a real store, so callers never share records.
type MockUserRepository struct {
	mu sync.Mutex

	Users       map[string]*user.User
	CreateError error
	FindError   error
	UpsertError error
	PingError   error

	// BeforeCreate runs before each insert, outside the lock. Tests use it
	// to interleave a competing login.
	BeforeCreate func(email string)

	CreateCalls int
	UpsertCalls int
}

// NewMockUserRepository creates an empty repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*user.User),
	}
}

var _ user.Repository = (*MockUserRepository)(nil)

// Seed stores u as-is and returns a copy
func (m *MockUserRepository) Seed(u *user.User) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.Users[u.ID] = u.Clone()
	return u.Clone()
}

// Get returns a copy of the stored record or nil
func (m *MockUserRepository) Get(id string) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		return u.Clone()
	}
	return nil
}

func (m *MockUserRepository) Create(ctx context.Context, email string) (*user.User, error) {
	if m.BeforeCreate != nil {
		m.BeforeCreate(email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if m.CreateError != nil {
		return nil, m.CreateError
	}
	for _, u := range m.Users {
		if u.Email == email {
			return nil, errors.DuplicateKey("User", nil)
		}
	}

	now := time.Now().UTC()
	u := &user.User{ID: uuid.NewString(), Email: email, CreatedAt: now, UpdatedAt: now}
	m.Users[u.ID] = u
	return u.Clone(), nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID == id })
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Email == email })
}

func (m *MockUserRepository) FindByBillingCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	return m.find(func(u *user.User) bool {
		return u.BillingCustomerID != nil && *u.BillingCustomerID == customerID
	})
}

func (m *MockUserRepository) FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*user.User, error) {
	return m.find(func(u *user.User) bool {
		return u.BillingSubscriptionID != nil && *u.BillingSubscriptionID == subscriptionID
	})
}

func (m *MockUserRepository) find(match func(*user.User) bool) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, u := range m.Users {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return nil, errors.NotFound("User")
}

func (m *MockUserRepository) Upsert(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++

	if m.UpsertError != nil {
		return m.UpsertError
	}
	stored, ok := m.Users[u.ID]
	if !ok {
		return errors.NotFound("User")
	}
	u.UpdatedAt = time.Now().UTC()
	next := u.Clone()
	next.Email = stored.Email
	next.CreatedAt = stored.CreatedAt
	m.Users[u.ID] = next
	return nil
}

func (m *MockUserRepository) Ping(ctx context.Context) error {
	return m.PingError
}

// MockGateway is a testify mock of billing.Gateway
type MockGateway struct {
	mock.Mock
}

var _ billing.Gateway = (*MockGateway)(nil)

func (m *MockGateway) CreateCustomer(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*billing.Event, error) {
	args := m.Called(payload, signature)
	if ev := args.Get(0); ev != nil {
		return ev.(*billing.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCompletionClient is a testify mock of completion.Client
type MockCompletionClient struct {
	mock.Mock
}

var _ completion.Client = (*MockCompletionClient)(nil)

func (m *MockCompletionClient) Complete(ctx context.Context, model, prompt string, maxTokens int) (*completion.Response, error) {
	args := m.Called(ctx, model, prompt, maxTokens)
	if resp := args.Get(0); resp != nil {
		return resp.(*completion.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

// CompletionResponse builds an upstream-shaped response with one choice
func CompletionResponse(model, content string) *completion.Response {
	return &completion.Response{
		ID:      "chatcmpl-test",
		Object:  "chat.completion",
		Created: 1700000000,
		Model:   model,
		Choices: []completion.Choice{{
			Index:        0,
			Message:      completion.Message{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: completion.Usage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12},
	}
}
