package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/rollbot/internal/dice"
	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"
)

const testSeed = 31

type wsTestFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type wsTestResultPayload struct {
	Result struct {
		Text       string `json:"text"`
		Recognized bool   `json:"recognized"`
		Notation   string `json:"notation"`
		Seed       int64  `json:"seed"`
	} `json:"result"`
}

func fixedSeedRolls(maxDice int) *rolls.Service {
	return rolls.NewWithRoller(dice.NewRollerWithSeed(maxDice, func() (int64, error) {
		return testSeed, nil
	}))
}

func testHandler(t *testing.T, config handlerConfig) http.Handler {
	t.Helper()
	if config.rollLimit == 0 {
		config.rollLimit = rate.Inf
	}
	handler, err := newHandler(fixedSeedRolls(0), config)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func dialWSWithHandler(t *testing.T, handler http.Handler) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func dialWS(t *testing.T) *websocket.Conn {
	t.Helper()
	return dialWSWithHandler(t, testHandler(t, handlerConfig{}))
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame map[string]any) {
	t.Helper()
	if err := json.NewEncoder(conn).Encode(frame); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
}

func sendMessage(t *testing.T, conn *websocket.Conn, requestID string, body string) {
	t.Helper()
	writeFrame(t, conn, map[string]any{
		"type":       "roll.message",
		"request_id": requestID,
		"payload":    map[string]any{"body": body},
	})
}

func readFrame(t *testing.T, conn *websocket.Conn) wsTestFrame {
	t.Helper()
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var got wsTestFrame
	if err := json.NewDecoder(conn).Decode(&got); err != nil {
		t.Fatalf("decode server frame: %v", err)
	}
	return got
}

func decodeResultPayload(t *testing.T, payload json.RawMessage) wsTestResultPayload {
	t.Helper()
	var result wsTestResultPayload
	if err := json.Unmarshal(payload, &result); err != nil {
		t.Fatalf("decode result payload: %v", err)
	}
	return result
}

func TestWebSocketRollReturnsResult(t *testing.T) {
	conn := dialWS(t)

	sendMessage(t, conn, "req-1", "!roll 2d6+1")

	got := readFrame(t, conn)
	if got.Type != "roll.result" {
		t.Fatalf("frame type = %q, want %q", got.Type, "roll.result")
	}
	if got.RequestID != "req-1" {
		t.Fatalf("request id = %q, want %q", got.RequestID, "req-1")
	}
	result := decodeResultPayload(t, got.Payload)
	want := dice.NewRoller(0).RollWithSeed("!roll 2d6+1", testSeed)
	if result.Result.Text != want.Text {
		t.Fatalf("text = %q, want %q", result.Result.Text, want.Text)
	}
	if !result.Result.Recognized || result.Result.Notation != "2d6+1" || result.Result.Seed != testSeed {
		t.Fatalf("unexpected result metadata: %+v", result.Result)
	}
}

// TestWebSocketIgnoresMessagesWithoutPrefix ensures ordinary chat gets no reply.
func TestWebSocketIgnoresMessagesWithoutPrefix(t *testing.T) {
	conn := dialWS(t)

	sendMessage(t, conn, "req-ignored", "rolling 2d6 later")
	sendMessage(t, conn, "req-roll", "!roll d20")

	got := readFrame(t, conn)
	if got.RequestID != "req-roll" {
		t.Fatalf("request id = %q, want the prefixed message to answer first", got.RequestID)
	}
}

func TestWebSocketRollWithoutNotationReturnsHelp(t *testing.T) {
	conn := dialWS(t)

	sendMessage(t, conn, "req-help", "!roll please")

	got := readFrame(t, conn)
	result := decodeResultPayload(t, got.Payload)
	if result.Result.Text != dice.HelpMessage {
		t.Fatalf("text = %q, want help message", result.Result.Text)
	}
	if result.Result.Recognized || result.Result.Notation != "" {
		t.Fatalf("unexpected result metadata: %+v", result.Result)
	}
}

func TestWebSocketRollTooManyDice(t *testing.T) {
	conn := dialWS(t)

	sendMessage(t, conn, "req-big", "!roll 1000000d6")

	got := readFrame(t, conn)
	result := decodeResultPayload(t, got.Payload)
	if result.Result.Text != dice.TooManyDiceMessage(dice.DefaultMaxDice) {
		t.Fatalf("text = %q, want too many dice message", result.Result.Text)
	}
}

func TestWebSocketCustomPrefix(t *testing.T) {
	conn := dialWSWithHandler(t, testHandler(t, handlerConfig{commandPrefix: "/roll"}))

	sendMessage(t, conn, "req-bang", "!roll 1d6")
	sendMessage(t, conn, "req-slash", "/roll 1d6")

	got := readFrame(t, conn)
	if got.RequestID != "req-slash" {
		t.Fatalf("request id = %q, want %q", got.RequestID, "req-slash")
	}
}

func TestWebSocketUnknownTypeReturnsError(t *testing.T) {
	conn := dialWS(t)

	writeFrame(t, conn, map[string]any{
		"type":       "roll.unknown",
		"request_id": "req-bad-1",
		"payload":    map[string]any{},
	})

	got := readFrame(t, conn)
	if got.Type != "roll.error" {
		t.Fatalf("frame type = %q, want %q", got.Type, "roll.error")
	}
	if !strings.Contains(string(got.Payload), "INVALID_ARGUMENT") {
		t.Fatalf("error payload = %s, expected INVALID_ARGUMENT code", string(got.Payload))
	}
}

func TestWebSocketRejectsOversizedBody(t *testing.T) {
	conn := dialWS(t)

	sendMessage(t, conn, "req-long", "!roll "+strings.Repeat("x", maxMessageBodyRunes))

	got := readFrame(t, conn)
	if got.Type != "roll.error" {
		t.Fatalf("frame type = %q, want %q", got.Type, "roll.error")
	}
	if !strings.Contains(string(got.Payload), "at most 2000 characters") {
		t.Fatalf("error payload = %s, expected body limit message", string(got.Payload))
	}
}

// TestWebSocketRateLimitClosesConnection ensures a flood of rolls is cut off.
func TestWebSocketRateLimitClosesConnection(t *testing.T) {
	conn := dialWSWithHandler(t, testHandler(t, handlerConfig{
		rollLimit: rate.Every(time.Hour),
		rollBurst: 1,
	}))

	sendMessage(t, conn, "req-1", "!roll 1d6")
	if got := readFrame(t, conn); got.Type != "roll.result" {
		t.Fatalf("frame type = %q, want %q", got.Type, "roll.result")
	}

	sendMessage(t, conn, "req-2", "!roll 1d6")
	got := readFrame(t, conn)
	if got.Type != "roll.error" {
		t.Fatalf("frame type = %q, want %q", got.Type, "roll.error")
	}
	if !strings.Contains(string(got.Payload), "RESOURCE_EXHAUSTED") {
		t.Fatalf("error payload = %s, expected RESOURCE_EXHAUSTED code", string(got.Payload))
	}
}
