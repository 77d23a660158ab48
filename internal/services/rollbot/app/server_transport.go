package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/louisbranch/rollbot/internal/services/rollbot/rolls"
	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"
)

const (
	defaultCommandPrefix = "!roll"

	maxFramePayloadBytes   = 16 * 1024
	maxDecodeErrorsPerConn = 3
	maxMessageBodyRunes    = 2000
)

const (
	frameTypeMessage = "roll.message"
	frameTypeResult  = "roll.result"
	frameTypeError   = "roll.error"
)

type handlerConfig struct {
	commandPrefix string
	rollLimit     rate.Limit
	rollBurst     int
	idleTimeout   time.Duration
}

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type wsErrorEnvelope struct {
	Error wsError `json:"error"`
}

type wsError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type messagePayload struct {
	Body string `json:"body"`
}

type resultEnvelope struct {
	Result rollResult `json:"result"`
}

type rollResult struct {
	Text       string `json:"text"`
	Recognized bool   `json:"recognized"`
	Notation   string `json:"notation,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// validateCommandPrefix rejects prefixes the notation grammar could read as
// dice, since the whole message including the prefix is parsed.
func validateCommandPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return errors.New("command prefix is required")
	}
	if strings.ContainsFunc(prefix, unicode.IsDigit) {
		return errors.New("command prefix must not contain digits")
	}
	return nil
}

func newHandler(rollService *rolls.Service, config handlerConfig) (http.Handler, error) {
	if rollService == nil {
		return nil, errors.New("roll service is required")
	}
	if config.commandPrefix == "" {
		config.commandPrefix = defaultCommandPrefix
	}
	if err := validateCommandPrefix(config.commandPrefix); err != nil {
		return nil, err
	}
	if config.rollBurst <= 0 {
		config.rollBurst = 1
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, rollService, config)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux, nil
}

func handleWSConn(conn *websocket.Conn, rollService *rolls.Service, config handlerConfig) {
	defer func() {
		_ = conn.Close()
	}()

	ctx := context.Background()
	if request := conn.Request(); request != nil {
		ctx = request.Context()
	}

	decoder := json.NewDecoder(conn)
	peer := newWSPeer(json.NewEncoder(conn))
	limiter := rate.NewLimiter(config.rollLimit, config.rollBurst)
	decodeErrors := 0

	for {
		if config.idleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(config.idleTimeout))
		}

		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) || isTimeout(err) {
				return
			}
			decodeErrors++
			_ = writeWSError(peer, "", "INVALID_ARGUMENT", "invalid frame payload")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = writeWSError(peer, frame.RequestID, "INVALID_ARGUMENT", "payload too large")
			continue
		}

		switch frame.Type {
		case frameTypeMessage:
			if !handleMessageFrame(ctx, peer, rollService, limiter, config.commandPrefix, frame) {
				return
			}
		default:
			_ = writeWSError(peer, frame.RequestID, "INVALID_ARGUMENT", "unsupported frame type")
		}
	}
}

// handleMessageFrame answers one chat message. It reports false when the
// connection should be closed.
func handleMessageFrame(ctx context.Context, peer *wsPeer, rollService *rolls.Service, limiter *rate.Limiter, prefix string, frame wsFrame) bool {
	var payload messagePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(peer, frame.RequestID, "INVALID_ARGUMENT", "invalid message payload")
		return true
	}
	if utf8.RuneCountInString(payload.Body) > maxMessageBodyRunes {
		_ = writeWSError(peer, frame.RequestID, "INVALID_ARGUMENT", "body must be at most 2000 characters")
		return true
	}
	if !strings.HasPrefix(payload.Body, prefix) {
		return true
	}
	if !limiter.Allow() {
		_ = writeWSError(peer, frame.RequestID, "RESOURCE_EXHAUSTED", "rate limit exceeded")
		return false
	}

	result, err := rollService.Roll(ctx, payload.Body)
	if err != nil {
		log.Printf("rollbot: roll failed: %v", err)
		_ = writeWSError(peer, frame.RequestID, "INTERNAL", "failed to roll dice")
		return true
	}

	out := rollResult{
		Text:       result.Text,
		Recognized: result.Recognized,
	}
	if result.Recognized {
		out.Notation = result.Spec.String()
		out.Seed = result.Seed
	}
	if err := peer.writeFrame(wsFrame{
		Type:      frameTypeResult,
		RequestID: frame.RequestID,
		Payload:   mustJSON(resultEnvelope{Result: out}),
	}); err != nil {
		log.Printf("rollbot: send result: %v", err)
		return false
	}
	return true
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func writeWSError(peer *wsPeer, requestID string, code string, message string) error {
	return peer.writeFrame(wsFrame{
		Type:      frameTypeError,
		RequestID: requestID,
		Payload: mustJSON(wsErrorEnvelope{
			Error: wsError{
				Code:      code,
				Message:   message,
				Retryable: code == "RESOURCE_EXHAUSTED",
			},
		}),
	})
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal websocket frame payload: %v", err)
		return nil
	}
	return b
}
