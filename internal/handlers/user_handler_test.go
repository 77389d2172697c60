package handlers

import (
	"net/http"
	"testing"

	"automarket_backend/internal/repositories/plans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_RegisterAndFetch(t *testing.T) {
	api := newAPI(t, plans.NewMemoryStore())

	w := api.do(t, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"email":    "dealer@x.com",
		"name":     "Dealer",
		"password": "longenough",
		"role":     "seller",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "free", user["subscriptionPlan"])
	assert.NotContains(t, user, "passwordHash")

	w = api.do(t, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"email":    "dealer@x.com",
		"name":     "Again",
		"password": "longenough",
		"role":     "seller",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"email":    "root@x.com",
		"name":     "Root",
		"password": "longenough",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/users?email=dealer@x.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dealer", decode(t, w)["user"].(map[string]interface{})["name"])

	w = api.do(t, http.MethodGet, "/api/v1/users?email=ghost@x.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/users?action=entitlements&email=dealer@x.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ent := decode(t, w)["entitlements"].(map[string]interface{})
	assert.Equal(t, true, ent["canAddListing"])
	assert.EqualValues(t, 3, ent["listingLimit"])

	w = api.do(t, http.MethodGet, "/api/v1/users?action=delete&email=dealer@x.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
