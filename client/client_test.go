package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"novel_tweet_copywriter/generator"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/generate", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGenerateSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Errorf("missing request id header")
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode: %v", err)
		}
		if raw["style1"] != "humorous" || raw["count1"] != float64(6) {
			t.Errorf("unexpected body %v", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"热门标题":["a","b","c"],"主体文案":{"风格":"幽默搞笑","工具数量":6,"选中工具":["x"],"内容":"正文"},"配图建议":["p1","p2","p3"],"生成时间":"2026-10-16 10:00:00"}`))
	})

	res, err := c.Generate(context.Background(), generator.Request{Style: "humorous", Count: 6})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Titles) != 3 || res.Body.Text != "正文" || res.Body.ToolCount != 6 || len(res.ImageSuggestions) != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.GeneratedAt != "2026-10-16 10:00:00" {
		t.Fatalf("unexpected timestamp %q", res.GeneratedAt)
	}
}

func TestGenerateServerErrors(t *testing.T) {
	tests := []struct {
		status int
		busy   bool
		msg    string
	}{
		{http.StatusGatewayTimeout, true, BusyMessage},
		{http.StatusInternalServerError, false, "HTTP 500: Internal Server Error"},
		{http.StatusBadGateway, false, "HTTP 502: Bad Gateway"},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := c.Generate(context.Background(), generator.Request{Style: "humorous", Count: 6})
		var serr *ServerError
		if !errors.As(err, &serr) {
			t.Fatalf("status %d: expected ServerError, got %v", tt.status, err)
		}
		if serr.StatusCode != tt.status || serr.Busy() != tt.busy || serr.Error() != tt.msg {
			t.Fatalf("status %d: got code=%d busy=%v msg=%q", tt.status, serr.StatusCode, serr.Busy(), serr.Error())
		}
	}
}

func TestGenerateApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"模型繁忙"}`))
	})
	_, err := c.Generate(context.Background(), generator.Request{Style: "humorous", Count: 6})
	var aerr *ApplicationError
	if !errors.As(err, &aerr) || aerr.Message != "模型繁忙" {
		t.Fatalf("expected ApplicationError, got %v", err)
	}

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	})
	_, err = c.Generate(context.Background(), generator.Request{Style: "humorous", Count: 6})
	if !errors.As(err, &aerr) || aerr.Message != "生成失败" {
		t.Fatalf("expected default message, got %v", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
		_, _ = w.Write([]byte(`{"success":true,"热门标题":["stale"]}`))
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	start := time.Now()
	res, err := c.Generate(context.Background(), generator.Request{Style: "humorous", Count: 6})
	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TimeoutError, got %v (result %+v)", err, res)
	}
	if len(res.Titles) != 0 {
		t.Fatalf("timeout must not return a result, got %+v", res)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout took too long")
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
	if _, err := New("http://x", WithTimeout(0)); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}
