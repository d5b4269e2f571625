package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/bantaybuddy/backend/internal/streams"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const maxCommentLength = 100

// CommentHandler handles HTTP requests related to comments and replies
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/comment-post", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.GET("/posts/:post_id/comments/stream", h.StreamComments)
	g.POST("/posts/:post_id/comments/:comment_id/replies", h.CreateReply)
	g.GET("/posts/:post_id/comments/:comment_id/replies", h.GetReplies)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.DELETE("/replies/:id", h.DeleteReply)
}

// CreateComment persists a comment posted through the multipart comment form.
// The live subscription delivers the update; there is no optimistic response
// payload beyond the acknowledgment.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	uid := currentUID(c)
	ctx := c.Request().Context()

	postID := c.FormValue("postID")
	commentBody := c.FormValue("commentBody")
	authorID := c.FormValue("authorID")

	if postID == "" || commentBody == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "postID and commentBody are required")
	}
	if len(commentBody) > maxCommentLength {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Comment exceeds %d characters", maxCommentLength))
	}
	if authorID != "" && authorID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "authorID does not match the authenticated user")
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	commentDate := time.Now().UTC()
	if raw := c.FormValue("commentDate"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			commentDate = parsed
		}
	}

	comment := &models.Comment{
		CommentID:         uuid.NewString(),
		PostID:            postID,
		AuthorID:          uid,
		AuthorDisplayName: c.FormValue("authorDisplayName"),
		AuthorUsername:    c.FormValue("authorUsername"),
		AuthorPhotoURL:    c.FormValue("authorPhotoURL"),
		CommentBody:       commentBody,
		CommentDate:       commentDate,
	}

	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Recipient comes from the stored post, never from the form.
	if post.AuthorID != uid {
		h.notify(post.AuthorID, comment.AuthorID, comment.AuthorDisplayName, comment.AuthorUsername, comment.AuthorPhotoURL, models.ActionCommentedOnPost, postID)
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "commentID": comment.CommentID})
}

// GetCommentsByPostID returns the one-shot comment page: ordered top-level
// comments plus the aggregate count (top-level + all replies).
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")
	ctx := c.Request().Context()

	comments, err := h.commentRepository.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	total, err := h.commentRepository.CountForPost(ctx, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.CommentPage{Comments: comments, Total: total})
}

// StreamComments serves the live comment subscription as server-sent events.
// Each event carries the full current snapshot; disconnecting unsubscribes.
func (h *CommentHandler) StreamComments(c echo.Context) error {
	postID := c.Param("post_id")

	stream, err := streams.OpenCommentStream(c.Request().Context(), h.commentRepository, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer stream.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	for snapshot := range stream.Snapshots() {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
			return nil // client went away
		}
		resp.Flush()
	}
	return nil
}

// CreateReply adds a one-level-deep reply under a comment
func (h *CommentHandler) CreateReply(c echo.Context) error {
	uid := currentUID(c)
	ctx := c.Request().Context()
	postID := c.Param("post_id")
	commentID := c.Param("comment_id")

	var req models.CreateReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.PostID != postID {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment does not belong to this post")
	}

	author, err := h.userRepository.GetUserByUID(ctx, uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	reply := &models.Reply{
		ReplyID:           uuid.NewString(),
		CommentID:         commentID,
		PostID:            postID,
		AuthorID:          author.UID,
		AuthorDisplayName: author.DisplayName,
		AuthorUsername:    author.Username,
		AuthorPhotoURL:    author.UserPhotoURL,
		ReplyBody:         req.ReplyBody,
		ReplyDate:         time.Now().UTC(),
	}

	if err := h.commentRepository.CreateReply(ctx, reply); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post, err := h.postRepository.GetPostByID(ctx, postID); err == nil && post.AuthorID != uid {
		h.notify(post.AuthorID, author.UID, author.DisplayName, author.Username, author.UserPhotoURL, models.ActionRepliedToThread, postID)
	}

	return c.JSON(http.StatusCreated, reply)
}

// GetReplies lists the replies under a comment
func (h *CommentHandler) GetReplies(c echo.Context) error {
	replies, err := h.commentRepository.GetRepliesByCommentID(c.Request().Context(), c.Param("comment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, replies)
}

// UpdateComment edits a comment body and marks it edited
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	uid := currentUID(c)
	commentID := c.Param("id")

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.AuthorID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this comment")
	}

	if err := h.commentRepository.UpdateCommentBody(c.Request().Context(), commentID, req.CommentBody); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteComment deletes a comment and its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	uid := currentUID(c)
	commentID := c.Param("id")

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.AuthorID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteReply deletes a single reply
func (h *CommentHandler) DeleteReply(c echo.Context) error {
	uid := currentUID(c)
	replyID := c.Param("id")

	reply, err := h.commentRepository.GetReplyByID(c.Request().Context(), replyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reply.AuthorID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this reply")
	}

	if err := h.commentRepository.DeleteReply(c.Request().Context(), replyID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// notify writes a notification row; a failure here never fails the action
// that triggered it.
func (h *CommentHandler) notify(recipientUID, actorUID, displayName, username, photoURL, action, postID string) {
	notification := &models.Notification{
		RecipientUID:     recipientUID,
		ActorUID:         actorUID,
		ActorDisplayName: displayName,
		ActorUsername:    username,
		ActorPhotoURL:    photoURL,
		Action:           action,
		PostID:           postID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		logrus.WithError(err).WithField("postID", postID).Error("creating notification")
	}
}
