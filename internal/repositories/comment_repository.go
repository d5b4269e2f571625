package repositories

import (
	"context"
	"errors"

	"github.com/bantaybuddy/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentRepository defines the interface for comment and reply operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	UpdateCommentBody(ctx context.Context, commentID, body string) error
	DeleteComment(ctx context.Context, commentID string) error
	CreateReply(ctx context.Context, reply *models.Reply) error
	GetReplyByID(ctx context.Context, replyID string) (*models.Reply, error)
	GetRepliesByCommentID(ctx context.Context, commentID string) ([]models.Reply, error)
	DeleteReply(ctx context.Context, replyID string) error
	CountForPost(ctx context.Context, postID string) (int64, error)
	WatchPost(ctx context.Context, postID string) (<-chan struct{}, func(), error)
}

// MongoCommentRepository implements CommentRepository for MongoDB. Comments and
// replies live in separate collections keyed back to their parents; each
// comment carries a denormalized reply_count kept current with $inc.
type MongoCommentRepository struct {
	comments *mongo.Collection
	replies  *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		comments: db.Collection("comments"),
		replies:  db.Collection("replies"),
	}
}

// CreateComment inserts a new top-level comment
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	_, err := r.comments.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a single comment
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves the post's top-level comments in insertion
// order as returned by the store; no independent re-sort.
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	cursor, err := r.comments.Find(ctx, bson.M{"post_id": postID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateCommentBody replaces the comment body and marks it edited
func (r *MongoCommentRepository) UpdateCommentBody(ctx context.Context, commentID, body string) error {
	update := bson.M{"$set": bson.M{"comment_body": body, "is_edited": true}}
	res, err := r.comments.UpdateOne(ctx, bson.M{"_id": commentID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment and cascades to its replies
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, commentID string) error {
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": commentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = r.replies.DeleteMany(ctx, bson.M{"comment_id": commentID})
	return err
}

// CreateReply inserts a reply and bumps the parent's reply_count. The reply is
// inserted first so a failed insert can never inflate the count; if the parent
// vanished in between, the orphaned reply is removed again.
func (r *MongoCommentRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	if _, err := r.replies.InsertOne(ctx, reply); err != nil {
		return err
	}
	res, err := r.comments.UpdateOne(ctx, bson.M{"_id": reply.CommentID}, bson.M{"$inc": bson.M{"reply_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		_, _ = r.replies.DeleteOne(ctx, bson.M{"_id": reply.ReplyID})
		return ErrNotFound
	}
	return nil
}

// GetReplyByID retrieves a single reply
func (r *MongoCommentRepository) GetReplyByID(ctx context.Context, replyID string) (*models.Reply, error) {
	var reply models.Reply
	err := r.replies.FindOne(ctx, bson.M{"_id": replyID}).Decode(&reply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reply, nil
}

// GetRepliesByCommentID retrieves the replies under a comment
func (r *MongoCommentRepository) GetRepliesByCommentID(ctx context.Context, commentID string) ([]models.Reply, error) {
	cursor, err := r.replies.Find(ctx, bson.M{"comment_id": commentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	replies := []models.Reply{}
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// DeleteReply removes a reply and decrements the parent's reply_count
func (r *MongoCommentRepository) DeleteReply(ctx context.Context, replyID string) error {
	var reply models.Reply
	err := r.replies.FindOneAndDelete(ctx, bson.M{"_id": replyID}).Decode(&reply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	_, err = r.comments.UpdateOne(ctx, bson.M{"_id": reply.CommentID}, bson.M{"$inc": bson.M{"reply_count": -1}})
	return err
}

// CountForPost returns the aggregate comment count for a post: top-level
// comments plus the sum of their denormalized reply counts, in one pipeline.
func (r *MongoCommentRepository) CountForPost(ctx context.Context, postID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post_id": postID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"top":     bson.M{"$sum": 1},
			"replies": bson.M{"$sum": "$reply_count"},
		}}},
	}
	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Top     int64 `bson:"top"`
		Replies int64 `bson:"replies"`
	}
	if err = cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Top + out[0].Replies, nil
}

// WatchPost opens change streams over the comment and reply collections and
// signals on every event touching the given post. The returned stop function
// closes both streams; the channel is closed once they drain.
func (r *MongoCommentRepository) WatchPost(ctx context.Context, postID string) (<-chan struct{}, func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)

	// Delete events carry no full document, so they pass the filter and the
	// consumer reloads; inserts and updates are narrowed to this post.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"fullDocument.post_id": postID},
			bson.M{"operationType": "delete"},
		}}}},
	}

	commentStream, err := r.comments.Watch(watchCtx, pipeline)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	replyStream, err := r.replies.Watch(watchCtx, pipeline)
	if err != nil {
		commentStream.Close(ctx)
		cancel()
		return nil, nil, err
	}

	events := make(chan struct{}, 1)
	done := make(chan struct{}, 2)

	pump := func(cs *mongo.ChangeStream) {
		defer func() { done <- struct{}{} }()
		defer cs.Close(context.Background())
		for cs.Next(watchCtx) {
			select {
			case events <- struct{}{}:
			default: // consumer reloads the full page anyway, coalesce
			}
		}
	}
	go pump(commentStream)
	go pump(replyStream)

	go func() {
		<-done
		<-done
		close(events)
	}()

	return events, cancel, nil
}
