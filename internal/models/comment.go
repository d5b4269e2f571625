package models

import "time"

// Comment is a top-level comment on a post. ReplyCount is denormalized and
// kept current atomically on reply creation/deletion, so aggregate comment
// counts never need a per-comment reply fetch.
type Comment struct {
	CommentID         string    `json:"commentID" bson:"_id"`
	PostID            string    `json:"postID" bson:"post_id"`
	AuthorID          string    `json:"authorID" bson:"author_id"`
	AuthorDisplayName string    `json:"authorDisplayName" bson:"author_display_name"`
	AuthorUsername    string    `json:"authorUsername" bson:"author_username"`
	AuthorPhotoURL    string    `json:"authorPhotoURL,omitempty" bson:"author_photo_url,omitempty"`
	CommentBody       string    `json:"commentBody" bson:"comment_body"`
	CommentDate       time.Time `json:"commentDate" bson:"comment_date"`
	IsEdited          bool      `json:"isEdited" bson:"is_edited"`
	ReplyCount        int64     `json:"replyCount" bson:"reply_count"`
}

// Reply is a nested reply under a top-level comment. Replies go one level deep
// only; a reply cannot own further replies.
type Reply struct {
	ReplyID           string    `json:"replyID" bson:"_id"`
	CommentID         string    `json:"commentID" bson:"comment_id"`
	PostID            string    `json:"postID" bson:"post_id"`
	AuthorID          string    `json:"authorID" bson:"author_id"`
	AuthorDisplayName string    `json:"authorDisplayName" bson:"author_display_name"`
	AuthorUsername    string    `json:"authorUsername" bson:"author_username"`
	AuthorPhotoURL    string    `json:"authorPhotoURL,omitempty" bson:"author_photo_url,omitempty"`
	ReplyBody         string    `json:"replyBody" bson:"reply_body"`
	ReplyDate         time.Time `json:"replyDate" bson:"reply_date"`
	IsEdited          bool      `json:"isEdited" bson:"is_edited"`
}

// CommentPage is the one-shot read of a post's comment stream: the ordered
// top-level comments plus the aggregate count (top-level + all replies).
type CommentPage struct {
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
}

// CreateReplyRequest is the body for replying to a comment.
type CreateReplyRequest struct {
	ReplyBody string `json:"replyBody" validate:"required,min=1,max=100"`
}

// UpdateCommentRequest is the body for editing a comment or reply.
type UpdateCommentRequest struct {
	CommentBody string `json:"commentBody" validate:"required,min=1,max=100"`
}
