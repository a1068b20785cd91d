package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/expenspend/expenspend-api/internal/core/domain"
)

const friendshipsCollection = "friendships"

type MongoFriendshipRepository struct {
	coll *mongo.Collection
}

func NewFriendshipRepository(db *mongo.Database) *MongoFriendshipRepository {
	return &MongoFriendshipRepository{coll: db.Collection(friendshipsCollection)}
}

type mongoFriendship struct {
	ID          string    `bson:"_id"`
	InitiatorID string    `bson:"initiator_id"`
	RecipientID string    `bson:"recipient_id"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	CreatedBy   string    `bson:"created_by,omitempty"`
	ModifiedBy  string    `bson:"modified_by,omitempty"`
	IsDeleted   bool      `bson:"is_deleted"`
}

func (mf mongoFriendship) toDomain() *domain.Friendship {
	return &domain.Friendship{
		ID:          mf.ID,
		InitiatorID: mf.InitiatorID,
		RecipientID: mf.RecipientID,
		Status:      domain.FriendshipStatus(mf.Status),
		CreatedAt:   mf.CreatedAt,
		CreatedBy:   mf.CreatedBy,
		ModifiedBy:  mf.ModifiedBy,
		IsDeleted:   mf.IsDeleted,
	}
}

// Insert persists a new friendship pair. The unique index over the ordered
// (initiator_id, recipient_id) pair on non-deleted rows decides races; a
// violation maps to domain.ErrDuplicatePair.
func (r *MongoFriendshipRepository) Insert(ctx context.Context, f *domain.Friendship) (*domain.Friendship, error) {
	doc := mongoFriendship{
		ID:          uuid.NewString(),
		InitiatorID: f.InitiatorID,
		RecipientID: f.RecipientID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt,
		CreatedBy:   f.CreatedBy,
		IsDeleted:   false,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicatePair
		}
		return nil, fmt.Errorf("insert friendship: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoFriendshipRepository) FindByID(ctx context.Context, id string) (*domain.Friendship, error) {
	var mf mongoFriendship
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("find friendship: %w", err)
	}
	return mf.toDomain(), nil
}

func (r *MongoFriendshipRepository) FindByPair(ctx context.Context, initiatorID, recipientID string) (*domain.Friendship, error) {
	var mf mongoFriendship
	filter := bson.M{"initiator_id": initiatorID, "recipient_id": recipientID, "is_deleted": false}
	if err := r.coll.FindOne(ctx, filter).Decode(&mf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("find friendship pair: %w", err)
	}
	return mf.toDomain(), nil
}

// UpdateStatus applies from→to. The filter pins the expected current status,
// so when two decisions race on the same row only the first one lands; the
// loser's filter no longer matches and the call reports an invalid
// transition instead of overwriting the winner.
func (r *MongoFriendshipRepository) UpdateStatus(ctx context.Context, id string, from, to domain.FriendshipStatus, modifiedBy string) (*domain.Friendship, error) {
	filter := bson.M{"_id": id, "status": string(from), "is_deleted": false}
	update := bson.M{"$set": bson.M{"status": string(to), "modified_by": modifiedBy}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mf mongoFriendship
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// The row changed (or vanished) between the caller's read and this
			// write; the transition the caller validated no longer applies.
			return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
		}
		return nil, fmt.Errorf("update friendship status: %w", err)
	}
	return mf.toDomain(), nil
}

func (r *MongoFriendshipRepository) SoftDelete(ctx context.Context, id, modifiedBy string) error {
	update := bson.M{"$set": bson.M{"is_deleted": true, "modified_by": modifiedBy}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, update)
	if err != nil {
		return fmt.Errorf("soft delete friendship: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrFriendshipNotFound
	}
	return nil
}

func (r *MongoFriendshipRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Friendship, error) {
	filter := bson.M{
		"is_deleted": false,
		"$or": []bson.M{
			{"initiator_id": userID},
			{"recipient_id": userID},
		},
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Friendship
	for cur.Next(ctx) {
		var mf mongoFriendship
		if err := cur.Decode(&mf); err != nil {
			return nil, fmt.Errorf("decode friendship: %w", err)
		}
		out = append(out, mf.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	return out, nil
}
