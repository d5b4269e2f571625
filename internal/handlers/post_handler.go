package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/bantaybuddy/backend/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	petRepository  repositories.PetRepository
	userRepository repositories.UserRepository
	media          storage.MediaStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, petRepo repositories.PetRepository, userRepo repositories.UserRepository, media storage.MediaStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		petRepository:  petRepo,
		userRepository: userRepo,
		media:          media,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.POST("/posts/repost", h.CreateRepost)
	g.POST("/posts/edit-post", h.EditPost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts)
	g.GET("/feed", h.GetFeed)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post. The post id is allocated before any media
// upload so uploaded files are grouped under it; all attached media upload
// concurrently and any single failure abandons the whole creation with no
// post persisted.
func (h *PostHandler) CreatePost(c echo.Context) error {
	uid := currentUID(c)
	ctx := c.Request().Context()

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !models.ValidCategory(req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown category %q", req.Category))
	}

	author, err := h.userRepository.GetUserByUID(ctx, uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}
	// Reject bad media types before anything is written anywhere.
	for _, file := range files {
		if !storage.AllowedImageTypes[file.Header.Get("Content-Type")] {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("File %s is not a valid image", file.Filename))
		}
	}

	taggedPets, err := h.resolveTaggedPets(ctx, uid, req.TaggedPetIDs)
	if err != nil {
		return err
	}

	postID := uuid.NewString()

	imageURLs, err := h.uploadAll(ctx, postID, files)
	if err != nil {
		logrus.WithError(err).WithField("postID", postID).Error("uploading post media")
		return echo.NewHTTPError(http.StatusInternalServerError, "Error uploading media")
	}

	post := &models.Post{
		PostID:            postID,
		AuthorID:          author.UID,
		AuthorDisplayName: author.DisplayName,
		AuthorUsername:    author.Username,
		AuthorPhotoURL:    author.UserPhotoURL,
		Content:           req.Content,
		Category:          req.Category,
		TaggedPets:        taggedPets,
		ImageURLs:         imageURLs,
		Date:              time.Now().UTC(),
		PostType:          models.PostTypePost,
		ReportStatus:      models.ReportStatusNone,
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

// uploadAll uploads every attached file concurrently and fails fast: the first
// error cancels the remaining uploads and nothing is committed downstream.
// URLs come back in the files' original order.
func (h *PostHandler) uploadAll(ctx context.Context, postID string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			src, err := file.Open()
			if err != nil {
				return err
			}
			defer src.Close()

			url, err := h.media.UploadPostMedia(gctx, postID, file.Filename, file.Header.Get("Content-Type"), src)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (h *PostHandler) resolveTaggedPets(ctx context.Context, uid string, petIDs []string) ([]models.TaggedPet, error) {
	if len(petIDs) == 0 {
		return nil, nil
	}
	tagged := make([]models.TaggedPet, 0, len(petIDs))
	for _, petID := range petIDs {
		pet, err := h.petRepository.GetPetByID(ctx, petID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Tagged pet %s not found", petID))
			}
			return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if pet.OwnerUID != uid {
			return nil, echo.NewHTTPError(http.StatusForbidden, "You can only tag your own pets")
		}
		tagged = append(tagged, models.TaggedPet{PetID: pet.PetID, PetName: pet.PetName})
	}
	return tagged, nil
}

// CreateRepost creates a repost carrying a denormalized snapshot of the
// original post taken at repost time.
func (h *PostHandler) CreateRepost(c echo.Context) error {
	uid := currentUID(c)
	ctx := c.Request().Context()

	var req models.RepostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !models.ValidCategory(req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown category %q", req.Category))
	}

	original, err := h.postRepository.GetPostByID(ctx, req.OriginalPostID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Original post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	author, err := h.userRepository.GetUserByUID(ctx, uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	post := &models.Post{
		PostID:            uuid.NewString(),
		AuthorID:          author.UID,
		AuthorDisplayName: author.DisplayName,
		AuthorUsername:    author.Username,
		AuthorPhotoURL:    author.UserPhotoURL,
		Content:           req.Content,
		Category:          req.Category,
		Date:              time.Now().UTC(),
		PostType:          models.PostTypeRepost,
		ReportStatus:      models.ReportStatusNone,

		OriginalPostID:                original.PostID,
		OriginalPostAuthorID:          original.AuthorID,
		OriginalPostAuthorDisplayName: original.AuthorDisplayName,
		OriginalPostAuthorUsername:    original.AuthorUsername,
		OriginalPostAuthorPhotoURL:    original.AuthorPhotoURL,
		OriginalPostContent:           original.Content,
		OriginalPostMedia:             original.ImageURLs,
		OriginalPostDate:              original.Date,
		OriginalReportStatus:          original.ReportStatus,
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, post.Sanitized())
}

// EditPost mutates content and category of an existing post and marks it
// edited. Nothing else changes; no history is kept.
func (h *PostHandler) EditPost(c echo.Context) error {
	uid := currentUID(c)

	var req models.EditPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Action != "updatePostData" {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown action %q", req.Action))
	}
	if !models.ValidCategory(req.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown category %q", req.Category))
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), req.PostID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.AuthorID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	if err := h.postRepository.UpdateContent(c.Request().Context(), req.PostID, req.Content, req.Category); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetPost retrieves the sanitized view of a post
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post.Sanitized())
}

// GetPosts retrieves posts, optionally filtered by author
func (h *PostHandler) GetPosts(c echo.Context) error {
	authorID := c.QueryParam("author")
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var posts []models.Post
	var err error
	if authorID != "" {
		posts, err = h.postRepository.GetPostsByAuthor(c.Request().Context(), authorID, skip, limit)
	} else {
		posts, err = h.postRepository.ListPosts(c.Request().Context(), "", skip, limit)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sanitizeAll(posts))
}

// GetFeed returns the newest-first feed, optionally filtered by category
func (h *PostHandler) GetFeed(c echo.Context) error {
	category := c.QueryParam("category")
	if category != "" && !models.ValidCategory(category) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unknown category %q", category))
	}

	page, _ := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	posts, err := h.postRepository.ListPosts(c.Request().Context(), category, (page-1)*limit, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts": sanitizeAll(posts),
		"page":  page,
	})
}

// DeletePost deletes a post and best-effort cleans up its media objects
func (h *PostHandler) DeletePost(c echo.Context) error {
	uid := currentUID(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.AuthorID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, mediaURL := range post.ImageURLs {
		if err := h.media.DeleteByURL(c.Request().Context(), mediaURL); err != nil {
			logrus.WithError(err).WithField("postID", postID).Error("deleting post media")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func sanitizeAll(posts []models.Post) []models.Post {
	views := make([]models.Post, len(posts))
	for i, post := range posts {
		views[i] = post.Sanitized()
	}
	return views
}
