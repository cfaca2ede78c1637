// Package coordinator serializes operations on hot keys. Every key maps to
// one room, every room is owned by one goroutine, and all requests for a room
// flow through that goroutine's channel, which yields linearizable per-key
// ordering no matter how many callers race.
package coordinator

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/open-civ-league/league-bot/internal/kv"
)

// SecretHeader authenticates callers. Requests without the shared secret are
// rejected before reaching any room.
const SecretHeader = "X-Coordinator-Secret"

// OpRequest is the wire envelope for one store operation.
type OpRequest struct {
	Op      string     `json:"op"`
	Key     string     `json:"key,omitempty"`
	Keys    []string   `json:"keys,omitempty"`
	Prefix  string     `json:"prefix,omitempty"`
	Value   []byte     `json:"value,omitempty"`
	Entries []kv.Entry `json:"entries,omitempty"`
	TTL     int64      `json:"ttl_ns,omitempty"`
}

// OpResponse is the wire envelope for an operation result.
type OpResponse struct {
	Found  bool              `json:"found,omitempty"`
	Value  []byte            `json:"value,omitempty"`
	Values map[string][]byte `json:"values,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type storedValue struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (v storedValue) expired(now time.Time) bool {
	return !v.expiresAt.IsZero() && now.After(v.expiresAt)
}

type roomRequest struct {
	op    OpRequest
	reply chan OpResponse
}

// room owns one shard of the hot keyspace.
type room struct {
	name     string
	requests chan roomRequest
	values   map[string]storedValue
}

func newRoom(name string) *room {
	return &room{
		name:     name,
		requests: make(chan roomRequest, 64),
		values:   make(map[string]storedValue),
	}
}

// run is the actor loop. Exclusive owner of r.values.
func (r *room) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-r.requests:
			req.reply <- r.apply(req.op)
		}
	}
}

func (r *room) apply(op OpRequest) OpResponse {
	now := time.Now()
	switch op.Op {
	case "get":
		v, ok := r.values[op.Key]
		if !ok || v.expired(now) {
			delete(r.values, op.Key)
			return OpResponse{Found: false}
		}
		return OpResponse{Found: true, Value: v.data}

	case "put":
		r.values[op.Key] = newStoredValue(op.Value, op.TTL, now)
		return OpResponse{Found: true}

	case "delete":
		delete(r.values, op.Key)
		return OpResponse{Found: true}

	case "list":
		out := make(map[string][]byte)
		for k, v := range r.values {
			if strings.HasPrefix(k, op.Prefix) && !v.expired(now) {
				out[k] = v.data
			}
		}
		return OpResponse{Found: true, Values: out}

	case "get_multi":
		out := make(map[string][]byte, len(op.Keys))
		for _, k := range op.Keys {
			if v, ok := r.values[k]; ok && !v.expired(now) {
				out[k] = v.data
			}
		}
		return OpResponse{Found: true, Values: out}

	case "put_multi":
		for _, e := range op.Entries {
			r.values[e.Key] = newStoredValue(e.Value, int64(e.TTL), now)
		}
		return OpResponse{Found: true}

	case "delete_multi":
		for _, k := range op.Keys {
			delete(r.values, k)
		}
		return OpResponse{Found: true}

	default:
		return OpResponse{Error: "unknown op: " + op.Op}
	}
}

func newStoredValue(data []byte, ttlNS int64, now time.Time) storedValue {
	v := storedValue{data: data}
	if ttlNS > 0 {
		v.expiresAt = now.Add(time.Duration(ttlNS))
	}
	return v
}

// Server hosts the rooms behind an HTTP request/response surface.
type Server struct {
	secret string
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]*room
	ctx   context.Context
}

// NewServer builds the coordinator. ctx bounds the lifetime of room actors.
func NewServer(ctx context.Context, secret string, logger *slog.Logger) *Server {
	return &Server{
		secret: secret,
		logger: logger,
		rooms:  make(map[string]*room),
		ctx:    ctx,
	}
}

// roomName maps a key to its owning room: the segment before the first colon,
// so queue:, lobby:, and activity: keys each get their own actor.
func roomName(key string) string {
	if i := strings.Index(key, ":"); i > 0 {
		return key[:i]
	}
	return "default"
}

func (s *Server) room(name string) *room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[name]
	if !ok {
		r = newRoom(name)
		s.rooms[name] = r
		go r.run(s.ctx)
	}
	return r
}

// Handler returns the chi router for the coordinator surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requireSecret)
	r.Post("/v1/op", s.handleOp)
	return r
}

func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	var op OpRequest
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	name := s.opRoom(op)
	req := roomRequest{op: op, reply: make(chan OpResponse, 1)}

	select {
	case s.room(name).requests <- req:
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}

	select {
	case resp := <-req.reply:
		if resp.Error != "" {
			w.WriteHeader(http.StatusBadRequest)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			s.logger.Error("failed to encode coordinator response", slog.Any("error", err))
		}
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	}
}

// opRoom derives the room from the op's first key. Batched hot-key operations
// always target a single prefix in practice (one queue, one lobby).
func (s *Server) opRoom(op OpRequest) string {
	switch {
	case op.Key != "":
		return roomName(op.Key)
	case len(op.Keys) > 0:
		return roomName(op.Keys[0])
	case len(op.Entries) > 0:
		return roomName(op.Entries[0].Key)
	case op.Prefix != "":
		return roomName(op.Prefix)
	default:
		return "default"
	}
}
