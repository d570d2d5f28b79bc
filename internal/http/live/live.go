// Package live serves websocket sessions that keep a notes list in sync
// with the user's search and page selection.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"notehub/internal/http/view"
	"notehub/internal/note"
	"notehub/internal/notes"
	"notehub/internal/query"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
	readLimit  = 4096
)

// inbound is a message from the browser.
type inbound struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Page  int    `json:"page"`
}

// outbound is a message to the browser.
type outbound struct {
	Type       string `json:"type"`
	HTML       string `json:"html,omitempty"`
	Page       int    `json:"page,omitempty"`
	TotalPages int    `json:"totalPages,omitempty"`
	Search     string `json:"search,omitempty"`
	Notice     string `json:"notice,omitempty"`
	Message    string `json:"message,omitempty"`
}

type Handler struct {
	Queries  *notes.Queries
	Views    *view.Renderer
	Debounce time.Duration
	Upgrader websocket.Upgrader
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tag, ok := note.ParseFilter(r.URL.Query().Get("tag"))
	if !ok {
		http.Error(w, "unknown tag", http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	search := r.URL.Query().Get("search")

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed", "err", err)
		return
	}

	s := &session{
		conn:    conn,
		queries: h.Queries,
		views:   h.Views,
		send:    make(chan []byte, sendBuffer),
		keys:    make(chan note.ListKey, 1),
	}
	s.view = notes.NewListView(tag, h.Debounce, s.offerKey)
	s.view.Restore(page, search)
	s.run(r.Context())
}

type session struct {
	conn    *websocket.Conn
	queries *notes.Queries
	views   *view.Renderer
	view    *notes.ListView
	send    chan []byte
	keys    chan note.ListKey
}

func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	defer s.view.Close()
	defer s.conn.Close()

	go func() {
		s.readLoop()
		cancel()
	}()
	go s.watch(ctx, cancel)

	s.writeLoop(ctx)
}

// offerKey keeps only the most recent key change.
func (s *session) offerKey(k note.ListKey) {
	for {
		select {
		case s.keys <- k:
			return
		default:
		}
		select {
		case <-s.keys:
		default:
		}
	}
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(readLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg inbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("live session read failed", "err", err)
			}
			return
		}
		switch msg.Type {
		case "search":
			s.view.SetSearchInput(msg.Value)
		case "page":
			s.view.SetPage(msg.Page)
		}
	}
}

// watch follows the cache slot of the active key, switching slots when
// the view's key changes.
func (s *session) watch(ctx context.Context, cancel context.CancelFunc) {
	key := s.view.Key()
	updates, unsubscribe := s.follow(ctx, key)
	defer func() { unsubscribe() }()

	for {
		select {
		case <-ctx.Done():
			return
		case k := <-s.keys:
			if k == key {
				continue
			}
			unsubscribe()
			key = k
			updates, unsubscribe = s.follow(ctx, key)
		case r, ok := <-updates:
			if !ok {
				continue
			}
			if !s.push(s.message(key, r)) {
				cancel()
				return
			}
		}
	}
}

func (s *session) follow(ctx context.Context, key note.ListKey) (<-chan query.Result[note.PageResult], func()) {
	updates, unsubscribe := s.queries.Lists.Subscribe(key)
	go func() {
		// results arrive through the subscription
		_, _ = s.queries.Lists.Fetch(ctx, key)
	}()
	return updates, unsubscribe
}

func (s *session) message(key note.ListKey, r query.Result[note.PageResult]) outbound {
	if r.Err != nil && !r.HasData {
		return outbound{Type: "error", Message: "Could not load notes. Please try again."}
	}

	l := view.List{
		Tag:      key.Tag,
		BasePath: "/notes/filter/" + key.Tag,
		Search:   key.Search,
		Key:      key,
		Result:   r.Data,
		HasData:  r.HasData,
		Controls: notes.Paginate(key.Page, r.Data.TotalPages, len(r.Data.Notes) > 0),
	}
	html, err := s.views.Results(l)
	if err != nil {
		slog.Error("live render failed", "err", err)
		return outbound{Type: "error", Message: "Could not render notes."}
	}

	out := outbound{
		Type:       "list",
		HTML:       string(html),
		Page:       key.Page,
		TotalPages: r.Data.TotalPages,
		Search:     key.Search,
	}
	if r.Err != nil {
		out.Notice = "Could not refresh notes. Showing the last loaded data."
	}
	return out
}

// push queues a message. A client that cannot keep up is dropped.
func (s *session) push(m outbound) bool {
	b, err := json.Marshal(m)
	if err != nil {
		slog.Error("live encode failed", "err", err)
		return true
	}
	select {
	case s.send <- b:
		return true
	default:
		slog.Warn("live session too slow, closing")
		return false
	}
}

func (s *session) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
