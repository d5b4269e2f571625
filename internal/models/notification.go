package models

import "time"

// Notification is a user notification row (PostgreSQL). Actor identity is
// denormalized at write time so listing needs no profile lookups.
type Notification struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	RecipientUID     string    `json:"recipientUID" gorm:"size:64;index"`
	ActorUID         string    `json:"userID" gorm:"size:64;index"`
	ActorDisplayName string    `json:"displayname"`
	ActorUsername    string    `json:"username"`
	ActorPhotoURL    string    `json:"userPhotoURL"`
	Action           string    `json:"action" gorm:"size:60"`
	PostID           string    `json:"postID" gorm:"size:64;index"`
	IsRead           bool      `json:"isRead" gorm:"default:false;index"`
	CreatedAt        time.Time `json:"date" gorm:"index"`
}

// Notification action texts, matching what the client renders verbatim.
const (
	ActionReactedToPost   = "reacted to your post!"
	ActionCommentedOnPost = "commented on your post!"
	ActionRepliedToThread = "replied to a comment on your post!"
)
