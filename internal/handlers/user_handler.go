package handlers

import (
	"errors"
	"net/http"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user lookup and profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/via-id", h.GetUserByID)
	g.GET("/users/via-username", h.GetUserByUsername)
	g.POST("/profile", h.CreateProfile)
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
}

// CreateProfile creates the profile document for a freshly signed-up user.
// The uid comes from the verified ID token; the username must be unclaimed.
func (h *UserHandler) CreateProfile(c echo.Context) error {
	uid := currentUID(c)
	ctx := c.Request().Context()

	var req models.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.userRepository.GetUserByUID(ctx, uid); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Profile already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Username is already taken")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := &models.User{
		UID:         uid,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Location:    req.Location,
		Pets:        []string{},
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUserByID resolves a user record by their opaque id.
// The response contract is 200 + user document, 404 + message, or 500 + error.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing id query parameter")
	}

	user, err := h.userRepository.GetUserByUID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserByUsername resolves a user record by their unique handle
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing username query parameter")
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUID(c.Request().Context(), currentUID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's mutable profile fields
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), currentUID(c), &req)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}
