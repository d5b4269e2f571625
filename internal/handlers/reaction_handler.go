package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ReactionHandler handles HTTP requests related to post reactions
type ReactionHandler struct {
	reactionRepository     repositories.ReactionRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository:     reactionRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/reactions", h.ApplyReaction)
	g.GET("/posts/:post_id/reactions", h.GetReactions)
}

// ReactionSummary is the rendered state of a post's reaction board.
type ReactionSummary struct {
	PostID              string                             `json:"postID"`
	Total               int                                `json:"total"`
	Counts              map[models.ReactionKind]int        `json:"counts"`
	UserIDs             map[models.ReactionKind][]string   `json:"userIDs"`
	CurrentUserReaction models.ReactionKind                `json:"currentUserReaction,omitempty"`
}

// ApplyReaction toggles the authenticated user's reaction on a post.
// Re-applying the held kind clears it; any other kind replaces the prior one,
// so the user ends under exactly one kind or none. A toggle that newly sets a
// kind notifies the post author, unless the actor is the author.
func (h *ReactionHandler) ApplyReaction(c echo.Context) error {
	uid := currentUID(c)
	postID := c.Param("post_id")
	ctx := c.Request().Context()

	var req models.ApplyReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if !req.Kind.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown reaction kind %q", req.Kind))
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	outcome, err := h.reactionRepository.Toggle(ctx, postID, uid, req.Kind)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if outcome.Notifies() && uid != post.AuthorID {
		h.notifyAuthor(c, post.AuthorID, uid, postID)
	}

	return h.respondWithSummary(c, postID, uid)
}

// GetReactions returns the post's reaction board summary
func (h *ReactionHandler) GetReactions(c echo.Context) error {
	return h.respondWithSummary(c, c.Param("post_id"), currentUID(c))
}

func (h *ReactionHandler) respondWithSummary(c echo.Context, postID, uid string) error {
	board, err := h.reactionRepository.GetBoard(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summary := ReactionSummary{
		PostID:  postID,
		Total:   board.Total(),
		Counts:  board.CountsByKind(),
		UserIDs: board.UserIDsByKind(),
	}
	if kind, ok := board.KindOf(uid); ok {
		summary.CurrentUserReaction = kind
	}
	return c.JSON(http.StatusOK, summary)
}

// notifyAuthor fans out the reaction notification with the actor's
// denormalized identity; a failed write is logged, never surfaced, since the
// reaction itself already committed.
func (h *ReactionHandler) notifyAuthor(c echo.Context, authorID, actorUID, postID string) {
	actor, err := h.userRepository.GetUserByUID(c.Request().Context(), actorUID)
	if err != nil {
		logrus.WithError(err).WithField("uid", actorUID).Error("resolving reaction actor")
		return
	}
	notification := &models.Notification{
		RecipientUID:     authorID,
		ActorUID:         actor.UID,
		ActorDisplayName: actor.DisplayName,
		ActorUsername:    actor.Username,
		ActorPhotoURL:    actor.UserPhotoURL,
		Action:           models.ActionReactedToPost,
		PostID:           postID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		logrus.WithError(err).WithField("postID", postID).Error("creating reaction notification")
	}
}
