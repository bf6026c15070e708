package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/arcgate/internal/domain/user"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDocument struct {
	ID                    string    `bson:"_id"`
	Email                 string    `bson:"email"`
	IsPremium             bool      `bson:"is_premium"`
	BillingCustomerID     *string   `bson:"billing_customer_id"`
	BillingSubscriptionID *string   `bson:"billing_subscription_id"`
	CreatedAt             time.Time `bson:"created_at"`
	UpdatedAt             time.Time `bson:"updated_at"`
}

func (d *userDocument) toDomain() *user.User {
	return &user.User{
		ID:                    d.ID,
		Email:                 d.Email,
		IsPremium:             d.IsPremium,
		BillingCustomerID:     d.BillingCustomerID,
		BillingSubscriptionID: d.BillingSubscriptionID,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

// UserRepository implements user.Repository on a MongoDB collection
type UserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewUserRepository creates a repository over db's users collection.
// EnsureIndexes must have run for the email uniqueness guarantee.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, coll: db.Collection(usersCollection)}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, email string) (*user.User, error) {
	// Mongo keeps millisecond precision
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := &userDocument{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errors.DuplicateKey("User", err)
		}
		return nil, errors.DatabaseError("Failed to create user", err)
	}

	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) FindByBillingCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "billing_customer_id", Value: customerID}})
}

func (r *UserRepository) FindByBillingSubscriptionID(ctx context.Context, subscriptionID string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "billing_subscription_id", Value: subscriptionID}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_premium", Value: u.IsPremium},
		{Key: "billing_customer_id", Value: u.BillingCustomerID},
		{Key: "billing_subscription_id", Value: u.BillingSubscriptionID},
		{Key: "updated_at", Value: u.UpdatedAt},
	}}}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: u.ID}}, update)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}
	if res.MatchedCount == 0 {
		return errors.NotFound("User")
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}
