package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/web-ads-backend/internal/testutil"
)

func TestFeed_BroadcastsCreatedAds(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, login := testutil.NewUserBuilder().WithUsername("feed_poster").BuildAndLogin(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(ts.FeedURL(), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the subscriber before posting.
	time.Sleep(100 * time.Millisecond)

	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/ads"), login.Token, validAdRequest())
	var created adResponse
	testutil.AssertJSONResponse(t, resp, &created)
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string `json:"type"`
		Ad   struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"ad"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "ad_created", event.Type)
	assert.Equal(t, created.ID, event.Ad.ID)
	assert.Equal(t, "Bike", event.Ad.Name)
}
