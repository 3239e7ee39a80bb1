package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn)
	}))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

// next reads messages until one of the wanted type arrives.
func next(t *testing.T, conn *websocket.Conn, typ int) status {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var s status
		require.NoError(t, json.Unmarshal(data, &s))
		if s.Type == typ {
			return s
		}
	}
}

func TestBroadcast(t *testing.T) {
	conn, closeFn := dial(t)
	defer closeFn()
	require.Eventually(t, func() bool { return Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	Info("loaded %d nodes", 3)
	s := next(t, conn, INFO)
	assert.Equal(t, "loaded 3 nodes", s.Message)

	Stats(map[string]int{"draws": 7})
	s = next(t, conn, STATS)
	data, ok := s.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), data["draws"])

	Error("boom")
	assert.Equal(t, "boom", next(t, conn, ERROR).Message)

	conn.Close()
	assert.Eventually(t, func() bool { return Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestNewClientReplaysLastMessage(t *testing.T) {
	first, closeFirst := dial(t)
	defer closeFirst()
	require.Eventually(t, func() bool { return Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	Info("replayed")
	assert.Equal(t, "replayed", next(t, first, INFO).Message)

	second, closeSecond := dial(t)
	defer closeSecond()
	assert.Equal(t, "replayed", next(t, second, INFO).Message)
}
