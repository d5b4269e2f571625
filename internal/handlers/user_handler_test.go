package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/bantaybuddy/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByID(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UID: "uid-1", Username: "doggo", DisplayName: "Doggo Owner"})
	h := NewUserHandler(repo)

	c, rec := newTestContext(http.MethodGet, "/users/via-id?id=uid-1", "uid-1", nil, "")
	require.NoError(t, h.GetUserByID(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "doggo", user.Username)
}

func TestGetUserByIDNotFound(t *testing.T) {
	h := NewUserHandler(newFakeUserRepo())

	c, rec := newTestContext(http.MethodGet, "/users/via-id?id=ghost", "uid-1", nil, "")
	require.NoError(t, h.GetUserByID(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User not found", body["message"])
}

func TestGetUserByIDStoreError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = errors.New("connection reset")
	h := NewUserHandler(repo)

	c, rec := newTestContext(http.MethodGet, "/users/via-id?id=uid-1", "uid-1", nil, "")
	require.NoError(t, h.GetUserByID(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "connection reset", body["error"])
}

func TestGetUserByIDMissingParam(t *testing.T) {
	h := NewUserHandler(newFakeUserRepo())

	c, _ := newTestContext(http.MethodGet, "/users/via-id", "uid-1", nil, "")
	err := h.GetUserByID(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetUserByUsername(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UID: "uid-1", Username: "doggo"})
	h := NewUserHandler(repo)

	c, rec := newTestContext(http.MethodGet, "/users/via-username?username=doggo", "uid-2", nil, "")
	require.NoError(t, h.GetUserByUsername(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "uid-1", user.UID)
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	h := NewUserHandler(newFakeUserRepo())

	c, rec := newTestContext(http.MethodGet, "/users/via-username?username=ghost", "uid-1", nil, "")
	require.NoError(t, h.GetUserByUsername(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestCreateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	h := NewUserHandler(repo)

	body := strings.NewReader(`{"username":"doggo","displayName":"Doggo Owner","location":"Manila"}`)
	c, rec := newTestContext(http.MethodPost, "/profile", "uid-1", body, echo.MIMEApplicationJSON)
	require.NoError(t, h.CreateProfile(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	created := repo.users["uid-1"]
	require.NotNil(t, created)
	assert.Equal(t, "doggo", created.Username)
	assert.NotNil(t, created.Pets, "pets list starts empty, not null")
}

func TestCreateProfileTwiceConflicts(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UID: "uid-1", Username: "doggo"})
	h := NewUserHandler(repo)

	body := strings.NewReader(`{"username":"doggo2","displayName":"Again"}`)
	c, _ := newTestContext(http.MethodPost, "/profile", "uid-1", body, echo.MIMEApplicationJSON)
	err := h.CreateProfile(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestCreateProfileUsernameTaken(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UID: "uid-9", Username: "doggo"})
	h := NewUserHandler(repo)

	body := strings.NewReader(`{"username":"doggo","displayName":"Copycat"}`)
	c, _ := newTestContext(http.MethodPost, "/profile", "uid-1", body, echo.MIMEApplicationJSON)
	err := h.CreateProfile(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UID: "uid-1", Username: "doggo", DisplayName: "Old Name"})
	h := NewUserHandler(repo)

	body := strings.NewReader(`{"displayName":"New Name","location":"Quezon City"}`)
	c, rec := newTestContext(http.MethodPut, "/profile", "uid-1", body, echo.MIMEApplicationJSON)
	require.NoError(t, h.UpdateProfile(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New Name", repo.users["uid-1"].DisplayName)
	assert.Equal(t, "Quezon City", repo.users["uid-1"].Location)
	assert.Equal(t, "doggo", repo.users["uid-1"].Username, "username is immutable")
}

func TestUpdateProfileRejectsBadPhotoURL(t *testing.T) {
	repo := newFakeUserRepo(&models.User{UID: "uid-1"})
	h := NewUserHandler(repo)

	body := strings.NewReader(`{"userPhotoURL":"not-a-url"}`)
	c, _ := newTestContext(http.MethodPut, "/profile", "uid-1", body, echo.MIMEApplicationJSON)
	err := h.UpdateProfile(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
