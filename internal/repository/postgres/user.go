package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/uptrace/bun"
)

// userRow is the users table mapping
type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                    string    `bun:"id,pk"`
	Email                 string    `bun:"email,notnull"`
	IsPremium             bool      `bun:"is_premium,notnull"`
	BillingCustomerID     *string   `bun:"billing_customer_id"`
	BillingSubscriptionID *string   `bun:"billing_subscription_id"`
	CreatedAt             time.Time `bun:"created_at,notnull"`
	UpdatedAt             time.Time `bun:"updated_at,notnull"`
}

func (r *userRow) toDomain() *user.User {
	return &user.User{
		ID:                    r.ID,
		Email:                 r.Email,
		IsPremium:             r.IsPremium,
		BillingCustomerID:     r.BillingCustomerID,
		BillingSubscriptionID: r.BillingSubscriptionID,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// UserRepository implements user.Repository on SQLite or PostgreSQL
type UserRepository struct {
	db *bun.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, email string) (*user.User, error) {
	now := time.Now().UTC()
	row := &userRow{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.DuplicateKey("User", err)
		}
		return nil, errors.DatabaseError("Failed to create user", err)
	}

	return row.toDomain(), nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByBillingCustomerID retrieves a user by billing customer id
func (r *UserRepository) FindByBillingCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	return r.findOne(ctx, "billing_customer_id = ?", customerID)
}

// FindByBillingSubscriptionID retrieves a user by billing subscription id
func (r *UserRepository) FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*user.User, error) {
	return r.findOne(ctx, "billing_subscription_id = ?", subscriptionID)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	row := new(userRow)
	err := r.db.NewSelect().
		Model(row).
		Where(where, arg).
		Limit(1).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	return row.toDomain(), nil
}

// Upsert persists the premium flag and billing references of an existing user
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	row := &userRow{
		ID:                    u.ID,
		IsPremium:             u.IsPremium,
		BillingCustomerID:     u.BillingCustomerID,
		BillingSubscriptionID: u.BillingSubscriptionID,
		UpdatedAt:             u.UpdatedAt,
	}

	res, err := r.db.NewUpdate().
		Model(row).
		Column("is_premium", "billing_customer_id", "billing_subscription_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}
	if n == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// Ping checks the database connection
func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// isUniqueViolation detects unique constraint failures from lib/pq and SQLite
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
