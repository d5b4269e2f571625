package models

import "time"

// PostType distinguishes an original post from a repost.
type PostType string

const (
	PostTypePost   PostType = "Post"
	PostTypeRepost PostType = "Repost"
)

// ReportStatus is the moderation state of a post.
type ReportStatus string

const (
	ReportStatusNone     ReportStatus = "none"
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusVerified ReportStatus = "verified"
)

// TakedownNotice replaces the content of a post whose report was verified.
const TakedownNotice = "This post violates our guidelines and has been taken down."

// PostCategories are the selectable post categories.
var PostCategories = []string{
	"General",
	"Q&A",
	"Tips",
	"Pet Needs",
	"Milestones",
	"Lost Pets",
	"Unknown Owner",
}

// ValidCategory reports whether category is one of the known post categories.
func ValidCategory(category string) bool {
	for _, c := range PostCategories {
		if c == category {
			return true
		}
	}
	return false
}

// TaggedPet is the denormalized pet snapshot stored on a post.
type TaggedPet struct {
	PetID   string `json:"petID" bson:"pet_id"`
	PetName string `json:"petName" bson:"pet_name"`
}

// Post represents a post document. Author fields are a denormalized snapshot
// taken at creation time; the OriginalPost* fields are populated only for
// reposts and snapshot the referenced post at repost time.
type Post struct {
	PostID            string       `json:"postID" bson:"_id"`
	AuthorID          string       `json:"authorID" bson:"author_id"`
	AuthorDisplayName string       `json:"authorDisplayName" bson:"author_display_name"`
	AuthorUsername    string       `json:"authorUsername" bson:"author_username"`
	AuthorPhotoURL    string       `json:"authorPhotoURL,omitempty" bson:"author_photo_url,omitempty"`
	Content           string       `json:"content" bson:"content"`
	Category          string       `json:"category" bson:"category"`
	TaggedPets        []TaggedPet  `json:"taggedPets,omitempty" bson:"tagged_pets,omitempty"`
	ImageURLs         []string     `json:"imageURLs,omitempty" bson:"image_urls,omitempty"`
	Date              time.Time    `json:"date" bson:"date"`
	IsEdited          bool         `json:"isEdited" bson:"is_edited"`
	PostType          PostType     `json:"postType" bson:"post_type"`
	ReportStatus      ReportStatus `json:"reportStatus" bson:"report_status"`

	OriginalPostID                string       `json:"originalPostID,omitempty" bson:"original_post_id,omitempty"`
	OriginalPostAuthorID          string       `json:"originalPostAuthorID,omitempty" bson:"original_post_author_id,omitempty"`
	OriginalPostAuthorDisplayName string       `json:"originalPostAuthorDisplayName,omitempty" bson:"original_post_author_display_name,omitempty"`
	OriginalPostAuthorUsername    string       `json:"originalPostAuthorUsername,omitempty" bson:"original_post_author_username,omitempty"`
	OriginalPostAuthorPhotoURL    string       `json:"originalPostAuthorPhotoURL,omitempty" bson:"original_post_author_photo_url,omitempty"`
	OriginalPostContent           string       `json:"originalPostContent,omitempty" bson:"original_post_content,omitempty"`
	OriginalPostMedia             []string     `json:"originalPostMedia,omitempty" bson:"original_post_media,omitempty"`
	OriginalPostDate              time.Time    `json:"originalPostDate,omitempty" bson:"original_post_date,omitempty"`
	OriginalReportStatus          ReportStatus `json:"originalReportStatus,omitempty" bson:"original_report_status,omitempty"`
}

// TakenDown reports whether the post itself has been taken down by moderation.
func (p Post) TakenDown() bool {
	return p.ReportStatus == ReportStatusVerified
}

// Sanitized returns the renderable view of the post. A taken-down post keeps
// its identity and footer state but has its content, media and tagged pets
// replaced with the fixed takedown notice. The embedded original inside a
// repost is suppressed independently via OriginalReportStatus.
func (p Post) Sanitized() Post {
	if p.TakenDown() {
		p.Content = TakedownNotice
		p.ImageURLs = nil
		p.TaggedPets = nil
	}
	if p.OriginalReportStatus == ReportStatusVerified {
		p.OriginalPostContent = TakedownNotice
		p.OriginalPostMedia = nil
	}
	return p
}

// CreatePostRequest carries the non-file fields of the multipart post form.
type CreatePostRequest struct {
	Content      string   `form:"content" json:"content" validate:"required,min=1,max=400"`
	Category     string   `form:"category" json:"category" validate:"required"`
	TaggedPetIDs []string `form:"taggedPets" json:"taggedPets" validate:"omitempty,dive,required"`
}

// RepostRequest creates a repost referencing an existing post.
type RepostRequest struct {
	OriginalPostID string `json:"originalPostID" validate:"required"`
	Content        string `json:"content" validate:"omitempty,max=400"`
	Category       string `json:"category" validate:"required"`
}

// EditPostRequest mirrors the edit-post body used by the client. Only content
// and category are mutable; isEdited is forced to true server-side.
type EditPostRequest struct {
	Action   string `json:"action" validate:"required"`
	PostID   string `json:"postID" validate:"required"`
	IsEdited bool   `json:"isEdited"`
	Content  string `json:"content" validate:"required,min=1,max=400"`
	Category string `json:"category" validate:"required"`
}
