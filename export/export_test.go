package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"novel_tweet_copywriter/generator"
)

type fixedSource struct {
	res   generator.Result
	count int
	ok    bool
}

func (s fixedSource) Current() (generator.Result, int, bool) { return s.res, s.count, s.ok }

func sample() generator.Result {
	return generator.Result{
		Titles: []string{"标题一", "标题二"},
		Body: generator.Body{
			Style:         "悬疑烧脑",
			ToolCount:     6,
			SelectedTools: []string{"悬念钩子", "身份反转"},
			Text:          "正文内容",
		},
		ImageSuggestions: []string{"配图甲", "配图乙"},
		GeneratedAt:      "2026-10-16 10:00:00",
	}
}

func TestNoResult(t *testing.T) {
	svc := NewService(fixedSource{}, "小说推文文案")
	if _, err := svc.CopyAll(); !errors.Is(err, ErrNoResult) {
		t.Fatalf("CopyAll: expected ErrNoResult, got %v", err)
	}
	if _, err := svc.Download(time.Now()); !errors.Is(err, ErrNoResult) {
		t.Fatalf("Download: expected ErrNoResult, got %v", err)
	}
}

func TestCopyAllOrder(t *testing.T) {
	svc := NewService(fixedSource{res: sample(), count: 1, ok: true}, "p")
	text, err := svc.CopyAll()
	if err != nil {
		t.Fatalf("CopyAll: %v", err)
	}
	last := -1
	for _, want := range []string{"1. 标题一", "2. 标题二", "正文内容", "1. 配图甲", "2. 配图乙", "生成时间: 2026-10-16 10:00:00"} {
		i := strings.Index(text, want)
		if i < 0 {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
		if i <= last {
			t.Fatalf("%q out of order in:\n%s", want, text)
		}
		last = i
	}
}

func TestDownload(t *testing.T) {
	svc := NewService(fixedSource{res: sample(), count: 3, ok: true}, "小说推文文案")
	now := time.Date(2026, 10, 16, 23, 0, 0, 0, time.UTC)
	art, err := svc.Download(now)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if art.Name != "小说推文文案_2026-10-16.txt" {
		t.Fatalf("unexpected name %q", art.Name)
	}
	body := string(art.Content)
	for _, want := range []string{
		strings.Repeat("=", 50),
		"生成次数: 第3次",
		"工具数量: 6个",
		"包含工具: 悬念钩子、身份反转",
		"正文内容",
		"2. 配图乙",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("download missing %q:\n%s", want, body)
		}
	}
}

type fakeClipboard struct {
	err  error
	text string
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestFallbackClipboard(t *testing.T) {
	t.Run("primary ok", func(t *testing.T) {
		p, f := &fakeClipboard{}, &fakeClipboard{}
		if err := (FallbackClipboard{Primary: p, Fallback: f}).WriteText("x"); err != nil {
			t.Fatal(err)
		}
		if p.text != "x" || f.text != "" {
			t.Fatalf("primary should win: %q %q", p.text, f.text)
		}
	})
	t.Run("falls back", func(t *testing.T) {
		p, f := &fakeClipboard{err: errors.New("denied")}, &fakeClipboard{}
		if err := (FallbackClipboard{Primary: p, Fallback: f}).WriteText("x"); err != nil {
			t.Fatal(err)
		}
		if f.text != "x" {
			t.Fatalf("fallback not used")
		}
	})
	t.Run("both fail", func(t *testing.T) {
		denied := errors.New("denied")
		err := (FallbackClipboard{Primary: &fakeClipboard{err: denied}, Fallback: &fakeClipboard{err: errors.New("no tty")}}).WriteText("x")
		var cerr *ClipboardError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected ClipboardError, got %v", err)
		}
		if !errors.Is(err, denied) {
			t.Fatalf("primary cause lost")
		}
	})
}

func TestTerminalClipboard(t *testing.T) {
	var buf bytes.Buffer
	if err := (TerminalClipboard{W: &buf}).WriteText("你好"); err != nil {
		t.Fatal(err)
	}
	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("你好")) + "\a"
	if buf.String() != want {
		t.Fatalf("unexpected sequence %q", buf.String())
	}
	if err := (TerminalClipboard{}).WriteText("x"); err == nil {
		t.Fatal("expected error without writer")
	}
}
