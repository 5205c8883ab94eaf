package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"trailhaven/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestShowProfileListsAuthoredContent(t *testing.T) {
	app, m := newTestServer(t)

	m.users.On("GetByID", mock.Anything, uint(3)).
		Return(&models.User{ID: 3, Username: "trail_jane"}, nil)
	m.campgrounds.On("ListByAuthor", mock.Anything, uint(3)).
		Return([]models.Campground{{ID: 1, Name: "Willow Creek", AuthorID: 3}}, nil)
	m.comments.On("ListByAuthor", mock.Anything, uint(3)).
		Return([]models.Comment{{ID: 4, Text: "Great spot", AuthorID: 3}}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/3", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "trail_jane")
	assert.Contains(t, body, "Willow Creek")
}

func TestShowProfileMissingUser(t *testing.T) {
	app, m := newTestServer(t)

	m.users.On("GetByID", mock.Anything, uint(42)).
		Return(nil, models.NewNotFoundError("user", 42))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "doesn't exist")
}

func TestUpdateProfileDeniedForOtherUser(t *testing.T) {
	app, m := newTestServer(t)

	cookie := loginAs(t, app, m, models.User{ID: 2, Username: "intruder"})

	req := formRequest(http.MethodPatch, "/users/1", url.Values{
		"email": {"stolen@example.com"},
	})
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	m.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfileOverwritesContactFields(t *testing.T) {
	app, m := newTestServer(t)

	cookie := loginAs(t, app, m, models.User{ID: 2, Username: "camper"})

	m.users.On("GetByID", mock.Anything, uint(2)).
		Return(&models.User{
			ID:       2,
			Username: "camper",
			Email:    "old@example.com",
			Phone:    "555-0100",
		}, nil)

	var updated *models.User
	m.users.On("Update", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*models.User)
		}).Return(nil)

	// Submitting without phone blanks it; fields are overwritten as sent.
	req := formRequest(http.MethodPatch, "/users/2", url.Values{
		"email":    {"new@example.com"},
		"fullName": {"Cammie Camper"},
	})
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/users/2", resp.Header.Get("Location"))
	require.NotNil(t, updated)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "", updated.Phone)
	assert.Equal(t, "Cammie Camper", updated.FullName)
}

func TestDeleteProfileKeepsAccountWhenAvatarDestroyFails(t *testing.T) {
	app, m := newTestServer(t)

	cookie := loginAs(t, app, m, models.User{ID: 2, Username: "camper"})

	m.users.On("GetByID", mock.Anything, uint(2)).
		Return(&models.User{ID: 2, Username: "camper", ImageID: "avatar9"}, nil)
	m.images.destroyErr = assert.AnError

	req := httptest.NewRequest(http.MethodDelete, "/users/2", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	m.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteProfileRemovesAccountAndSession(t *testing.T) {
	app, m := newTestServer(t)

	cookie := loginAs(t, app, m, models.User{ID: 2, Username: "camper"})

	m.users.On("GetByID", mock.Anything, uint(2)).
		Return(&models.User{ID: 2, Username: "camper", ImageID: "avatar9"}, nil)
	m.users.On("Delete", mock.Anything, uint(2)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/2", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, []string{"avatar9"}, m.images.destroyed)
	m.users.AssertExpectations(t)
}
