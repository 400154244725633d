package ws

import (
	"HereToHelp/entity"
	"HereToHelp/internal/lib/api/cont"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, hub *Hub, auth *entity.Auth) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth != nil {
			r = r.WithContext(cont.PutAuth(r.Context(), auth))
		}
		ServeWs(hub, slogt.New(t), w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestServeWs_RequiresAdmin(t *testing.T) {
	hub := NewHub(slogt.New(t))

	for _, auth := range []*entity.Auth{nil, {AuthName: "sam", IsAuthorised: true}} {
		srv := serve(t, hub, auth)
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
}

func TestHub_BroadcastOutbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(slogt.New(t))
	go hub.Run(ctx)

	srv := serve(t, hub, &entity.Auth{AuthName: "admin", IsAdmin: true, IsAuthorised: true})
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	item := entity.NewOutboxItem("ref-1", []byte(`{}`), "", "")
	hub.BroadcastOutbox(entity.OutboxEvent{Type: "queued", Item: item})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type string            `json:"type"`
		Data entity.OutboxItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "queued", got.Type)
	assert.Equal(t, "ref-1", got.Data.Reference)
	assert.Equal(t, entity.OutboxPending, got.Data.Status)
}

func TestServeWs_AfterHubStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(slogt.New(t))
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	srv := serve(t, hub, &entity.Auth{AuthName: "admin", IsAdmin: true, IsAuthorised: true})
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
	assert.Equal(t, 0, hub.Clients())
}
