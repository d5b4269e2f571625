package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/bantaybuddy/backend/internal/repositories"
	"github.com/bantaybuddy/backend/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PetHandler handles HTTP requests related to pet profiles
type PetHandler struct {
	petRepository  repositories.PetRepository
	userRepository repositories.UserRepository
	media          storage.MediaStore
}

// NewPetHandler creates a new PetHandler
func NewPetHandler(petRepo repositories.PetRepository, userRepo repositories.UserRepository, media storage.MediaStore) *PetHandler {
	return &PetHandler{
		petRepository:  petRepo,
		userRepository: userRepo,
		media:          media,
	}
}

// RegisterPetRoutes registers pet-related routes
func (h *PetHandler) RegisterPetRoutes(g *echo.Group) {
	g.POST("/pets", h.CreatePet)
	g.GET("/pets", h.GetPets)
	g.DELETE("/pets/delete-pet", h.DeletePet)
}

// CreatePet creates a pet profile. The pet id is allocated before the photo
// upload so the stored object is grouped under it.
func (h *PetHandler) CreatePet(c echo.Context) error {
	uid := currentUID(c)

	var req models.CreatePetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	petID := uuid.NewString()
	pet := &models.Pet{
		PetID:    petID,
		OwnerUID: uid,
		PetName:  req.PetName,
		PetBreed: req.PetBreed,
	}

	if file, err := c.FormFile("petPhoto"); err == nil {
		contentType := file.Header.Get("Content-Type")
		if !storage.AllowedImageTypes[contentType] {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("File %s is not a valid image", file.Filename))
		}
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		defer src.Close()

		url, err := h.media.UploadPetPhoto(c.Request().Context(), petID, file.Filename, contentType, src)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		pet.PetPhotoURL = url
	}

	if err := h.petRepository.CreatePet(c.Request().Context(), pet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.AddPet(c.Request().Context(), uid, petID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, pet)
}

// GetPets lists pets for the given owner, defaulting to the current user
func (h *PetHandler) GetPets(c echo.Context) error {
	owner := c.QueryParam("owner")
	if owner == "" {
		owner = currentUID(c)
	}

	pets, err := h.petRepository.GetPetsByOwner(c.Request().Context(), owner)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pets)
}

// DeletePet deletes a pet profile and cascades to its stored photo and the
// owner's pets list
func (h *PetHandler) DeletePet(c echo.Context) error {
	uid := currentUID(c)
	petID := c.QueryParam("id")
	if petID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing id query parameter")
	}

	pet, err := h.petRepository.GetPetByID(c.Request().Context(), petID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Pet not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if pet.OwnerUID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this pet")
	}

	// Only the pet's own stored photo is ever deleted; the legacy petPhotoURL
	// query parameter is not trusted to name an object.
	if pet.PetPhotoURL != "" {
		if err := h.media.DeleteByURL(c.Request().Context(), pet.PetPhotoURL); err != nil {
			logrus.WithError(err).WithField("petID", petID).Error("deleting pet photo")
		}
	}

	if err := h.petRepository.DeletePet(c.Request().Context(), petID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.RemovePet(c.Request().Context(), uid, petID); err != nil {
		logrus.WithError(err).WithField("petID", petID).Error("removing pet from owner list")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Pet deleted successfully"})
}
