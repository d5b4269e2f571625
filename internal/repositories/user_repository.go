package repositories

import (
	"context"
	"errors"

	"github.com/bantaybuddy/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user profile operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.User, error)
	AddPet(ctx context.Context, uid, petID string) error
	RemovePet(ctx context.Context, uid, petID string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user profile document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Pets == nil {
		user.Pets = []string{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByUID retrieves a user by their stable identifier
func (r *MongoUserRepository) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"uid": uid})
}

// GetUserByUsername retrieves a user by their unique handle
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the mutable profile fields and returns the updated user
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, uid string, req *models.UpdateProfileRequest) (*models.User, error) {
	set := bson.M{}
	if req.DisplayName != "" {
		set["display_name"] = req.DisplayName
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.UserPhotoURL != "" {
		set["user_photo_url"] = req.UserPhotoURL
	}
	if req.CoverPhotoURL != "" {
		set["cover_photo_url"] = req.CoverPhotoURL
	}
	if len(set) > 0 {
		res, err := r.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetUserByUID(ctx, uid)
}

// AddPet appends a pet id to the user's owned pets list
func (r *MongoUserRepository) AddPet(ctx context.Context, uid, petID string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$addToSet": bson.M{"pets": petID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemovePet removes a pet id from the user's owned pets list
func (r *MongoUserRepository) RemovePet(ctx context.Context, uid, petID string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$pull": bson.M{"pets": petID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
