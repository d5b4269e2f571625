package models

// User represents a user profile document. The uid comes from the identity
// provider at signup and never changes; username is the unique handle.
type User struct {
	UID           string   `json:"uid" bson:"uid"`
	Username      string   `json:"username" bson:"username"`
	DisplayName   string   `json:"displayName" bson:"display_name"`
	UserPhotoURL  string   `json:"userPhotoURL,omitempty" bson:"user_photo_url,omitempty"`
	CoverPhotoURL string   `json:"coverPhotoURL,omitempty" bson:"cover_photo_url,omitempty"`
	Location      string   `json:"location,omitempty" bson:"location,omitempty"`
	Pets          []string `json:"pets" bson:"pets"`
}

// CreateProfileRequest is the body for creating the profile document after
// signup with the identity provider.
type CreateProfileRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=20,alphanum"`
	DisplayName string `json:"displayName" validate:"required,min=1,max=30"`
	Location    string `json:"location,omitempty" validate:"omitempty,max=60"`
}

// UpdateProfileRequest defines the mutable profile fields. UID and username are
// never editable through this path.
type UpdateProfileRequest struct {
	DisplayName   string `json:"displayName,omitempty" validate:"omitempty,min=1,max=30"`
	Location      string `json:"location,omitempty" validate:"omitempty,max=60"`
	UserPhotoURL  string `json:"userPhotoURL,omitempty" validate:"omitempty,url"`
	CoverPhotoURL string `json:"coverPhotoURL,omitempty" validate:"omitempty,url"`
}
