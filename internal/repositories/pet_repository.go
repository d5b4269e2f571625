package repositories

import (
	"context"
	"errors"

	"github.com/bantaybuddy/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PetRepository defines the interface for pet profile operations
type PetRepository interface {
	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPetByID(ctx context.Context, petID string) (*models.Pet, error)
	GetPetsByOwner(ctx context.Context, ownerUID string) ([]models.Pet, error)
	DeletePet(ctx context.Context, petID string) error
}

// MongoPetRepository implements PetRepository for MongoDB
type MongoPetRepository struct {
	collection *mongo.Collection
}

// NewMongoPetRepository creates a new MongoPetRepository
func NewMongoPetRepository(db *mongo.Database) *MongoPetRepository {
	return &MongoPetRepository{collection: db.Collection("pets")}
}

// CreatePet inserts a new pet profile document
func (r *MongoPetRepository) CreatePet(ctx context.Context, pet *models.Pet) error {
	_, err := r.collection.InsertOne(ctx, pet)
	return err
}

// GetPetByID retrieves a pet by its id
func (r *MongoPetRepository) GetPetByID(ctx context.Context, petID string) (*models.Pet, error) {
	var pet models.Pet
	err := r.collection.FindOne(ctx, bson.M{"_id": petID}).Decode(&pet)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pet, nil
}

// GetPetsByOwner retrieves every pet owned by the given user
func (r *MongoPetRepository) GetPetsByOwner(ctx context.Context, ownerUID string) ([]models.Pet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"owner_uid": ownerUID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err = cursor.All(ctx, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

// DeletePet removes a pet document
func (r *MongoPetRepository) DeletePet(ctx context.Context, petID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": petID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
