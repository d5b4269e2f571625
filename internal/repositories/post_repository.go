package repositories

import (
	"context"
	"errors"

	"github.com/bantaybuddy/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error)
	ListPosts(ctx context.Context, category string, skip, limit int64) ([]models.Post, error)
	UpdateContent(ctx context.Context, id, content, category string) error
	SetReportStatus(ctx context.Context, id string, status models.ReportStatus) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post document. The caller allocates PostID up front
// so uploaded media can already be grouped under it.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ReportStatus == "" {
		post.ReportStatus = models.ReportStatusNone
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by id
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthor retrieves posts by a specific author, newest first
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID string, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author_id": authorID}, skip, limit)
}

// ListPosts retrieves posts newest first, optionally filtered by category
func (r *MongoPostRepository) ListPosts(ctx context.Context, category string, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return r.find(ctx, filter, skip, limit)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateContent mutates content and category only and marks the post edited.
// Author identity, date and media are never touched by an edit.
func (r *MongoPostRepository) UpdateContent(ctx context.Context, id, content, category string) error {
	update := bson.M{
		"$set": bson.M{
			"content":   content,
			"category":  category,
			"is_edited": true,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetReportStatus moves the post through the moderation state machine and
// propagates the status onto every repost embedding it, so taken-down content
// is suppressed transitively.
func (r *MongoPostRepository) SetReportStatus(ctx context.Context, id string, status models.ReportStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"report_status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	_, err = r.collection.UpdateMany(ctx,
		bson.M{"original_post_id": id},
		bson.M{"$set": bson.M{"original_report_status": status}})
	return err
}

// DeletePost removes a post document
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
