package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ReportHandler handles report submission and moderation actions
type ReportHandler struct {
	reportRepository repositories.ReportRepository
	postRepository   repositories.PostRepository
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportRepo repositories.ReportRepository, postRepo repositories.PostRepository) *ReportHandler {
	return &ReportHandler{
		reportRepository: reportRepo,
		postRepository:   postRepo,
	}
}

// RegisterReportRoutes registers the user-facing report route
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/report", h.SubmitReport)
}

// RegisterModerationRoutes registers moderator-only routes
func (h *ReportHandler) RegisterModerationRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/reports", h.GetReports)
	g.POST("/posts/:post_id/verify", h.VerifyReport)
	g.POST("/posts/:post_id/dismiss", h.DismissReport)
}

// SubmitReport files a report against a post and moves it under review.
// Reported content stays visible until a moderator verifies the report.
func (h *ReportHandler) SubmitReport(c echo.Context) error {
	uid := currentUID(c)
	postID := c.Param("post_id")
	ctx := c.Request().Context()

	var req models.SubmitReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.AuthorID == uid {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot report your own post")
	}

	reported, err := h.reportRepository.HasReported(postID, uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reported {
		return echo.NewHTTPError(http.StatusConflict, "You have already reported this post")
	}

	report := &models.Report{
		PostID:      postID,
		ReporterUID: uid,
		Reason:      req.Reason,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.reportRepository.CreateReport(report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.ReportStatus == models.ReportStatusNone {
		if err := h.postRepository.SetReportStatus(ctx, postID, models.ReportStatusPending); err != nil {
			logrus.WithError(err).WithField("postID", postID).Error("marking post under review")
		}
	}

	return c.JSON(http.StatusCreated, report)
}

// GetReports lists the reports accumulated against a post
func (h *ReportHandler) GetReports(c echo.Context) error {
	postID := c.Param("post_id")

	reports, err := h.reportRepository.GetByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	count, err := h.reportRepository.CountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"postID": postID, "count": count, "reports": reports})
}

// VerifyReport takes a post under review down. The post document survives;
// every read of it renders the takedown notice instead of its content.
func (h *ReportHandler) VerifyReport(c echo.Context) error {
	return h.transition(c, models.ReportStatusPending, models.ReportStatusVerified)
}

// DismissReport clears a post under review back to normal
func (h *ReportHandler) DismissReport(c echo.Context) error {
	return h.transition(c, models.ReportStatusPending, models.ReportStatusNone)
}

func (h *ReportHandler) transition(c echo.Context, from, to models.ReportStatus) error {
	postID := c.Param("post_id")
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.ReportStatus != from {
		return echo.NewHTTPError(http.StatusConflict, "Post is not under review")
	}

	if err := h.postRepository.SetReportStatus(ctx, postID, to); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"postID":      postID,
		"moderatorID": c.Get("moderatorID"),
		"status":      to,
	}).Info("moderation decision applied")

	return c.JSON(http.StatusOK, echo.Map{"postID": postID, "reportStatus": to})
}
