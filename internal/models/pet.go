package models

// Pet represents a pet profile owned by exactly one user.
type Pet struct {
	PetID       string `json:"petID" bson:"_id"`
	OwnerUID    string `json:"ownerUID" bson:"owner_uid"`
	PetName     string `json:"petName" bson:"pet_name"`
	PetBreed    string `json:"petBreed" bson:"pet_breed"`
	PetPhotoURL string `json:"petPhotoURL,omitempty" bson:"pet_photo_url,omitempty"`
}

// CreatePetRequest carries the non-file fields of the multipart pet form; the
// photo, if any, arrives as a file part.
type CreatePetRequest struct {
	PetName  string `form:"petName" json:"petName" validate:"required,min=1,max=30"`
	PetBreed string `form:"petBreed" json:"petBreed" validate:"required,min=1,max=50"`
}
