package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/bantaybuddy/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrToggleContention is returned when a reaction toggle keeps losing the
// compare-and-swap race and runs out of attempts.
var ErrToggleContention = errors.New("reaction toggle contention")

// ReactionRepository defines the interface for the per-post reaction board
type ReactionRepository interface {
	GetBoard(ctx context.Context, postID string) (*models.ReactionBoard, error)
	Toggle(ctx context.Context, postID, uid string, kind models.ReactionKind) (models.ToggleOutcome, error)
}

// MongoReactionRepository implements ReactionRepository for MongoDB. The six
// reaction kinds are one aggregate document per post mapping uid to kind, so a
// toggle is a single conditional write instead of a six-record scan.
type MongoReactionRepository struct {
	collection *mongo.Collection
}

// NewMongoReactionRepository creates a new MongoReactionRepository
func NewMongoReactionRepository(db *mongo.Database) *MongoReactionRepository {
	return &MongoReactionRepository{collection: db.Collection("reactions")}
}

// GetBoard retrieves the reaction board for a post. A post with no reactions
// yet yields an empty board, not an error.
func (r *MongoReactionRepository) GetBoard(ctx context.Context, postID string) (*models.ReactionBoard, error) {
	var board models.ReactionBoard
	err := r.collection.FindOne(ctx, bson.M{"_id": postID}).Decode(&board)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NewReactionBoard(postID), nil
		}
		return nil, err
	}
	if board.ByUser == nil {
		board.ByUser = map[string]models.ReactionKind{}
	}
	return &board, nil
}

const maxToggleAttempts = 5

// Toggle applies the reaction toggle with compare-and-swap semantics: the
// write filter asserts the user's kind as observed at read time, and a lost
// race re-reads and retries. The at-most-one-kind invariant therefore holds
// under concurrent toggles without a transaction.
func (r *MongoReactionRepository) Toggle(ctx context.Context, postID, uid string, kind models.ReactionKind) (models.ToggleOutcome, error) {
	field := "by_user." + uid

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		board, err := r.GetBoard(ctx, postID)
		if err != nil {
			return 0, err
		}
		prior, had := board.KindOf(uid)
		outcome := board.Toggle(uid, kind)

		var filter, update bson.M
		if had {
			filter = bson.M{"_id": postID, field: prior}
			if outcome == models.ReactionRemoved {
				update = bson.M{"$unset": bson.M{field: ""}}
			} else {
				update = bson.M{"$set": bson.M{field: kind}}
			}
			res, err := r.collection.UpdateOne(ctx, filter, update)
			if err != nil {
				return 0, err
			}
			if res.MatchedCount == 1 {
				return outcome, nil
			}
		} else {
			filter = bson.M{"_id": postID, field: bson.M{"$exists": false}}
			update = bson.M{"$set": bson.M{field: kind}}
			res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
			if err != nil {
				if mongo.IsDuplicateKeyError(err) {
					continue // board appeared between read and upsert
				}
				return 0, err
			}
			if res.MatchedCount == 1 || res.UpsertedCount == 1 {
				return outcome, nil
			}
		}
		// Filter missed: someone changed this user's entry since the read.
	}
	return 0, fmt.Errorf("post %s user %s: %w", postID, uid, ErrToggleContention)
}
