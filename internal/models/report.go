package models

import "time"

// Report is a single user report against a post (PostgreSQL). A post
// accumulates reports; its visibility state lives on the post document itself.
type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PostID      string    `json:"postID" gorm:"size:64;index"`
	ReporterUID string    `json:"reporterID" gorm:"size:64;index"`
	Reason      string    `json:"reason" gorm:"size:200"`
	CreatedAt   time.Time `json:"date"`
}

// SubmitReportRequest is the body for reporting a post.
type SubmitReportRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=200"`
}
