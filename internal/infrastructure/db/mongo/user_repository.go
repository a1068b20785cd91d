package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

const usersCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID              string    `bson:"_id"`
	Email           string    `bson:"email"`
	NormalizedEmail string    `bson:"normalized_email"`
	PasswordHash    string    `bson:"password_hash"`
	EmailConfirmed  bool      `bson:"email_confirmed"`
	LockoutEnabled  bool      `bson:"lockout_enabled"`
	LockoutEnd      time.Time `bson:"lockout_end,omitempty"`
	FailedAttempts  int       `bson:"failed_attempts"`
	FirstName       string    `bson:"first_name"`
	LastName        string    `bson:"last_name"`
	Roles           []string  `bson:"roles"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
	IsDeleted       bool      `bson:"is_deleted"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:              u.ID,
		Email:           u.Email,
		NormalizedEmail: u.NormalizedEmail,
		PasswordHash:    u.PasswordHash,
		EmailConfirmed:  u.EmailConfirmed,
		LockoutEnabled:  u.LockoutEnabled,
		LockoutEnd:      u.LockoutEnd,
		FailedAttempts:  u.FailedAttempts,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Roles:           u.Roles,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		IsDeleted:       u.IsDeleted,
	}
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:              mu.ID,
		Email:           mu.Email,
		NormalizedEmail: mu.NormalizedEmail,
		PasswordHash:    mu.PasswordHash,
		EmailConfirmed:  mu.EmailConfirmed,
		LockoutEnabled:  mu.LockoutEnabled,
		LockoutEnd:      mu.LockoutEnd,
		FailedAttempts:  mu.FailedAttempts,
		FirstName:       mu.FirstName,
		LastName:        mu.LastName,
		Roles:           mu.Roles,
		CreatedAt:       mu.CreatedAt,
		UpdatedAt:       mu.UpdatedAt,
		IsDeleted:       mu.IsDeleted,
	}
}

// Create inserts the user. The unique index on normalized_email is the
// authoritative duplicate guard; a violation maps to domain.ErrUserExists.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, err := r.coll.InsertOne(ctx, toMongoUser(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"normalized_email": normalizedEmail, "is_deleted": false})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "is_deleted": false})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, toMongoUser(user))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
