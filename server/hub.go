package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"novel_tweet_copywriter/export"
	"novel_tweet_copywriter/render"
	"novel_tweet_copywriter/ui"
)

// Event is one server-sent update for the page.
type Event struct {
	TS   string `json:"ts"`
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type noticeData struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	TTLMs   int64  `json:"ttlMs"`
}

type loadingSnapshot struct {
	Busy     bool    `json:"busy"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// Hub is the browser-facing ui.View. It fans events out to every connected
// page and keeps live notices around until they expire so a reloaded page
// still sees them.
type Hub struct {
	mu       sync.Mutex
	subs     map[chan Event]struct{}
	snapshot loadingSnapshot

	notices   *cache.Cache
	noticeSeq atomic.Uint64
	bufSize   int
}

func NewHub(noticeTTL time.Duration) *Hub {
	if noticeTTL <= 0 {
		noticeTTL = ui.DefaultNoticeTTL
	}
	return &Hub{
		subs:    make(map[chan Event]struct{}),
		notices: cache.New(noticeTTL, 2*noticeTTL),
		bufSize: 64,
	}
}

func (h *Hub) publish(typ string, data any) {
	ev := Event{TS: time.Now().UTC().Format(time.RFC3339Nano), Type: typ, Data: data}

	// Sends never block, so holding mu here keeps unsubscribe from closing a
	// channel mid-send.
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe returns the events a new page needs to catch up, then live events.
func (h *Hub) Subscribe() (replay []Event, ch <-chan Event, unsubscribe func()) {
	sub := make(chan Event, h.bufSize)

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	snap := h.snapshot
	h.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	replay = append(replay, Event{TS: now, Type: "snapshot", Data: snap})
	for _, n := range h.liveNotices() {
		replay = append(replay, Event{TS: now, Type: "notice", Data: n})
	}

	var once sync.Once
	return replay, sub, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, sub)
			close(sub)
		})
	}
}

func (h *Hub) subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) liveNotices() []noticeData {
	items := h.notices.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	// keys are zero-padded sequence numbers
	sort.Strings(keys)
	out := make([]noticeData, 0, len(keys))
	for _, k := range keys {
		if n, ok := items[k].Object.(noticeData); ok {
			out = append(out, n)
		}
	}
	return out
}

func (h *Hub) SetBusy(busy bool) {
	h.mu.Lock()
	h.snapshot.Busy = busy
	h.mu.Unlock()
	h.publish("busy", busy)
}

func (h *Hub) SetProgress(percent float64) {
	h.mu.Lock()
	h.snapshot.Progress = percent
	h.mu.Unlock()
	h.publish("progress", percent)
}

func (h *Hub) SetStatus(text string) {
	h.mu.Lock()
	h.snapshot.Status = text
	h.mu.Unlock()
	h.publish("status", text)
}

func (h *Hub) ShowResult(f render.Fragments) {
	h.publish("result", map[string]any{
		"html":        string(f.HTML()),
		"generatedAt": f.GeneratedAt,
	})
}

func (h *Hub) Notify(n ui.Notice) {
	ttl := n.TTL
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	data := noticeData{Level: n.Level, Message: n.Message, TTLMs: n.TTL.Milliseconds()}
	key := fmt.Sprintf("%020d", h.noticeSeq.Add(1))
	h.notices.Set(key, data, ttl)
	h.publish("notice", data)
}

var errNoPage = errors.New("no page connected")

// ReportsCopyResult is true: the page shows the copy outcome itself once
// navigator.clipboard or the selection fallback has run.
func (h *Hub) ReportsCopyResult() bool { return true }

// WriteText hands the text to the connected pages, which copy it with
// navigator.clipboard and fall back to a selection copy.
func (h *Hub) WriteText(text string) error {
	if h.subscribers() == 0 {
		return &export.ClipboardError{Primary: errNoPage, Fallback: errNoPage}
	}
	h.publish("clipboard", text)
	return nil
}

// EventsHandler streams hub events as SSE.
func EventsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(": ok\n\n"))
		flusher.Flush()

		replay, ch, unsubscribe := hub.Subscribe()
		defer unsubscribe()

		for _, ev := range replay {
			if err := writeSSEData(w, ev); err != nil {
				return
			}
		}
		flusher.Flush()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := writeSSEData(w, ev); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeSSEData(w http.ResponseWriter, ev Event) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return err
	}
	payload := bytes.TrimRight(buf.Bytes(), "\n")

	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n\n"))
	return err
}
