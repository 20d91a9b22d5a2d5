package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/testutil"
)

type adResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	City        string  `json:"city"`
	Seller      struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"seller"`
}

type adPageResponse struct {
	Content       []adResponse `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
}

func validAdRequest() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Bike",
		"description": "A sturdy bike",
		"imageUrl":    "https://example.com/bike.jpg",
		"price":       50.0,
		"category":    "SPORTS",
		"city":        "Town",
	}
}

func TestAdHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, login := testutil.NewUserBuilder().WithUsername("ad_creator").BuildAndLogin(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		token          string
		expectedStatus int
	}{
		{
			name:           "successful creation",
			request:        validAdRequest(),
			token:          login.Token,
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invalid category",
			request: func() map[string]interface{} {
				req := validAdRequest()
				req["category"] = "SPACESHIPS"
				return req
			}(),
			token:          login.Token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative price",
			request: func() map[string]interface{} {
				req := validAdRequest()
				req["price"] = -1.0
				return req
			}(),
			token:          login.Token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing name",
			request: func() map[string]interface{} {
				req := validAdRequest()
				delete(req, "name")
				return req
			}(),
			token:          login.Token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthenticated",
			request:        validAdRequest(),
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/ads"), tt.token, tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var result adResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, "Bike", result.Name)
				assert.Equal(t, "SPORTS", result.Category)
				assert.Equal(t, "ad_creator", result.Seller.Username)
			}
		})
	}
}

func TestAdHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)

	alice, aliceLogin := testutil.NewUserBuilder().WithUsername("list_alice").BuildAndLogin(t, ts)
	bob, _ := testutil.NewUserBuilder().WithUsername("list_bob").Build(t, ts.DB.DB)

	now := time.Now()
	testutil.NewAdBuilder(alice.ID).
		WithName("Mountain Bike").
		WithCategory(domain.CategorySports).
		WithPrice(50).
		WithPostDate(now.Add(-1 * time.Hour)).
		Build(t, ts.DB.DB)
	testutil.NewAdBuilder(bob.ID).
		WithName("Antique Chair").
		WithCategory(domain.CategoryFurniture).
		WithPrice(300).
		WithPostDate(now.Add(-2 * time.Hour)).
		Build(t, ts.DB.DB)

	listAds := func(t *testing.T, query, token string) adPageResponse {
		t.Helper()
		resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/ads"+query), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page adPageResponse
		testutil.AssertJSONResponse(t, resp, &page)
		return page
	}

	t.Run("no filters returns all ads newest first", func(t *testing.T) {
		page := listAds(t, "", "")
		require.Len(t, page.Content, 2)
		assert.Equal(t, "Mountain Bike", page.Content[0].Name)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("category filter is case-insensitive", func(t *testing.T) {
		page := listAds(t, "?category=sports", "")
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Mountain Bike", page.Content[0].Name)
	})

	t.Run("invalid category yields zero results, not an error", func(t *testing.T) {
		page := listAds(t, "?category=SPACESHIPS", "")
		assert.Empty(t, page.Content)
		assert.Equal(t, int64(0), page.TotalElements)
	})

	t.Run("price range", func(t *testing.T) {
		page := listAds(t, "?minPrice=100&maxPrice=400", "")
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Antique Chair", page.Content[0].Name)
	})

	t.Run("name substring", func(t *testing.T) {
		page := listAds(t, "?name=bike", "")
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Mountain Bike", page.Content[0].Name)
	})

	t.Run("mine only without identity yields an empty page", func(t *testing.T) {
		page := listAds(t, "?showMineOnly=true", "")
		assert.Empty(t, page.Content)
	})

	t.Run("mine only with identity", func(t *testing.T) {
		page := listAds(t, "?showMineOnly=true", aliceLogin.Token)
		require.Len(t, page.Content, 1)
		assert.Equal(t, "Mountain Bike", page.Content[0].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		page := listAds(t, "?page=0&size=1", "")
		require.Len(t, page.Content, 1)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)

		second := listAds(t, "?page=1&size=1", "")
		require.Len(t, second.Content, 1)
		assert.NotEqual(t, page.Content[0].ID, second.Content[0].ID)
	})
}

// Walks the whole ad lifecycle through the HTTP surface: create, list,
// a denied update from a non-owner, delete by the owner, gone afterwards.
func TestAdHandler_Lifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, alice := testutil.NewUserBuilder().WithUsername("alice").BuildAndLogin(t, ts)
	_, bob := testutil.NewUserBuilder().WithUsername("bob").BuildAndLogin(t, ts)

	// alice posts an ad
	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/ads"), alice.Token, validAdRequest())
	var created adResponse
	testutil.AssertJSONResponse(t, resp, &created)
	resp.Body.Close()
	require.Equal(t, "alice", created.Seller.Username)

	adURL := ts.APIURL(fmt.Sprintf("/ads/%s", created.ID))

	// the listing finds it under its category, case-insensitively
	listResp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/ads?category=sports"), "", nil)
	var page adPageResponse
	testutil.AssertJSONResponse(t, listResp, &page)
	listResp.Body.Close()
	require.Len(t, page.Content, 1)
	assert.Equal(t, created.ID, page.Content[0].ID)

	// bob may not edit it
	update := validAdRequest()
	update["category"] = "BOOKS"
	denied := testutil.AuthenticatedRequest(t, http.MethodPut, adURL, bob.Token, update)
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	denied.Body.Close()

	// bob may not delete it either
	deniedDelete := testutil.AuthenticatedRequest(t, http.MethodDelete, adURL, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, deniedDelete.StatusCode)
	deniedDelete.Body.Close()

	// alice updates it; omitted description clears
	update = map[string]interface{}{
		"name":     "Bike (sold pending)",
		"price":    45.0,
		"category": "sports",
		"city":     "Town",
	}
	updated := testutil.AuthenticatedRequest(t, http.MethodPut, adURL, alice.Token, update)
	var afterUpdate adResponse
	testutil.AssertJSONResponse(t, updated, &afterUpdate)
	updated.Body.Close()
	assert.Equal(t, "Bike (sold pending)", afterUpdate.Name)
	assert.Empty(t, afterUpdate.Description)

	// alice deletes it
	deleted := testutil.AuthenticatedRequest(t, http.MethodDelete, adURL, alice.Token, nil)
	assert.Equal(t, http.StatusOK, deleted.StatusCode)
	deleted.Body.Close()

	// it is gone
	gone := testutil.AuthenticatedRequest(t, http.MethodGet, adURL, "", nil)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
	gone.Body.Close()

	// deleting again reports not found, even for the owner
	goneDelete := testutil.AuthenticatedRequest(t, http.MethodDelete, adURL, alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, goneDelete.StatusCode)
	goneDelete.Body.Close()
}

func TestAdHandler_Get_InvalidID(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/ads/not-a-uuid"), "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
