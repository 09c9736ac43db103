package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/playperu/pittrivia/internal/game"
	"github.com/playperu/pittrivia/internal/trivia"
)

func selectFirstCell(t *testing.T, e testEnv, snap game.Snapshot) {
	t.Helper()
	s, err := e.games.Get(snap.ID)
	require.NoError(t, err)
	_, ok := s.SelectQuestion(trivia.QuestionRef{
		CategoryID: snap.Board[0].CategoryID,
		QuestionID: snap.Board[0].Cells[0].QuestionID,
	})
	require.True(t, ok)
}

func TestEventsStream(t *testing.T) {
	e := newTestEnv(t)
	snap := e.createGame(t)
	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/games/"+snap.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan game.Event, 8)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			data, ok := strings.CutPrefix(sc.Text(), "data: ")
			if !ok {
				continue
			}
			var ev game.Event
			if json.Unmarshal([]byte(data), &ev) == nil {
				events <- ev
			}
		}
	}()

	first := <-events
	assert.Equal(t, "snapshot", first.Type)
	require.NotNil(t, first.Snapshot)
	assert.Equal(t, snap.ID, first.Snapshot.ID)

	// The subscription is live by the time the snapshot arrives.
	assert.Equal(t, 1, e.broker.Subscribers(snap.ID))
	selectFirstCell(t, e, snap)

	select {
	case ev := <-events:
		assert.Equal(t, game.EventQuestionSelected, ev.Type)
		assert.Equal(t, "Question for Falcons", ev.Message)
		require.NotNil(t, ev.Snapshot.Question)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestGameWebSocket(t *testing.T) {
	e := newTestEnv(t)
	snap := e.createGame(t)
	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + srv.URL[len("http"):] + "/api/games/" + snap.ID + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	read := func() game.Event {
		t.Helper()
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var ev game.Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	}

	assert.Equal(t, "snapshot", read().Type)
	assert.Equal(t, 1, e.broker.Subscribers(snap.ID))

	selectFirstCell(t, e, snap)
	ev := read()
	assert.Equal(t, game.EventQuestionSelected, ev.Type)
	assert.Equal(t, snap.ID, ev.GameID)

	conn.Close(websocket.StatusNormalClosure, "done")
	assert.Eventually(t, func() bool { return e.broker.Subscribers(snap.ID) == 0 }, time.Second, 5*time.Millisecond)
}

func TestStreamsUnknownGame(t *testing.T) {
	e := newTestEnv(t)

	for _, path := range []string{"/api/games/missing/events", "/api/games/missing/ws"} {
		t.Run(path, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, 0, e.broker.Subscribers("missing"))
		})
	}
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("g")
	for range cap(ch) + 10 {
		b.Publish("g", game.Event{Type: game.EventTick})
	}
	assert.Len(t, ch, cap(ch))

	b.Unsubscribe("g", ch)
	assert.Equal(t, 0, b.Subscribers("g"))
	b.Publish("g", game.Event{Type: game.EventTick})
}
