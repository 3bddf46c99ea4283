// Package ui drives one generation at a time and keeps the view in sync.
package ui

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"novel_tweet_copywriter/export"
	"novel_tweet_copywriter/form"
	"novel_tweet_copywriter/generator"
	"novel_tweet_copywriter/render"
)

// ErrBusy is returned when a generation is already in flight.
var ErrBusy = errors.New("generation already in progress")

type State int

const (
	Idle State = iota
	Loading
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// View receives display updates. Methods may be called from several
// goroutines and must be safe for concurrent use.
type View interface {
	SetBusy(busy bool)
	SetProgress(percent float64)
	SetStatus(text string)
	ShowResult(f render.Fragments)
	Notify(n Notice)
}

// Generator is satisfied by *client.Client.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (generator.Result, error)
}

type Config struct {
	Generator Generator
	View      View
	Clipboard export.Clipboard
	Renderer  *render.Renderer
	Slot      *Slot

	DownloadPrefix   string
	MessageInterval  time.Duration
	ProgressInterval time.Duration
	NoticeTTL        time.Duration

	Logger  *log.Logger
	Verbose bool
}

// Controller is the Idle → Loading → Success/Failure → Idle state machine.
type Controller struct {
	gen      Generator
	view     View
	clip     export.Clipboard
	renderer *render.Renderer
	slot     *Slot
	exporter *export.Service

	messageInterval  time.Duration
	progressInterval time.Duration
	noticeTTL        time.Duration
	random           func() float64
	now              func() time.Time

	logger  *log.Logger
	verbose bool

	mu    sync.Mutex
	state State
}

func New(cfg Config) (*Controller, error) {
	if cfg.Generator == nil {
		return nil, errors.New("generator required")
	}
	if cfg.View == nil {
		return nil, errors.New("view required")
	}
	c := &Controller{
		gen:              cfg.Generator,
		view:             cfg.View,
		clip:             cfg.Clipboard,
		renderer:         cfg.Renderer,
		slot:             cfg.Slot,
		messageInterval:  cfg.MessageInterval,
		progressInterval: cfg.ProgressInterval,
		noticeTTL:        cfg.NoticeTTL,
		random:           rand.Float64,
		now:              time.Now,
		logger:           cfg.Logger,
		verbose:          cfg.Verbose,
	}
	if c.renderer == nil {
		c.renderer = render.New()
	}
	if c.slot == nil {
		c.slot = &Slot{}
	}
	if c.messageInterval <= 0 {
		c.messageInterval = DefaultMessageInterval
	}
	if c.progressInterval <= 0 {
		c.progressInterval = DefaultProgressInterval
	}
	if c.noticeTTL <= 0 {
		c.noticeTTL = DefaultNoticeTTL
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	prefix := cfg.DownloadPrefix
	if prefix == "" {
		prefix = "小说推文文案"
	}
	c.exporter = export.NewService(c.slot, prefix)
	return c, nil
}

func (c *Controller) infof(format string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.logger.Printf("[ui] "+format, args...)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	c.infof("state %s -> %s", prev, s)
}

// Slot exposes the current-result slot.
func (c *Controller) Slot() *Slot {
	return c.slot
}

// Start validates the form and, when idle, begins a generation in the
// background. The channel yields the outcome once the view is back to idle.
// A second Start while loading is rejected with ErrBusy.
func (c *Controller) Start(ctx context.Context, values form.Values) (<-chan error, error) {
	req, err := form.Collect(values)
	if err != nil {
		c.notify(err)
		return nil, err
	}

	c.mu.Lock()
	if c.state == Loading {
		c.mu.Unlock()
		c.notify(ErrBusy)
		return nil, ErrBusy
	}
	c.state = Loading
	c.mu.Unlock()
	c.infof("state idle -> loading style=%s count=%d", req.Style, req.Count)

	stop := c.startLoading(ctx)
	done := make(chan error, 1)
	go func() {
		done <- c.run(ctx, req, stop)
	}()
	return done, nil
}

// Submit is Start followed by waiting for the outcome.
func (c *Controller) Submit(ctx context.Context, values form.Values) error {
	done, err := c.Start(ctx, values)
	if err != nil {
		return err
	}
	return <-done
}

func (c *Controller) run(ctx context.Context, req generator.Request, stop func()) error {
	res, err := c.gen.Generate(ctx, req)
	stop()
	if err != nil {
		return c.fail(err)
	}

	frags, err := c.renderer.Render(res)
	if err != nil {
		return c.fail(err)
	}
	count := c.slot.Replace(res)
	c.view.ShowResult(frags)
	c.setState(Success)
	c.view.Notify(Notice{Level: LevelSuccess, Message: "🎉 文案生成成功！", TTL: c.noticeTTL})
	c.infof("generation #%d stored titles=%d images=%d", count, len(res.Titles), len(res.ImageSuggestions))
	c.setState(Idle)
	return nil
}

func (c *Controller) fail(err error) error {
	c.setState(Failure)
	c.logger.Printf("[ui] generation error: %v", err)
	c.notify(err)
	c.setState(Idle)
	return err
}

func (c *Controller) notify(err error) {
	n := NoticeFor(err)
	n.TTL = c.noticeTTL
	c.view.Notify(n)
}

// CurrentFragments renders the current result, if any.
func (c *Controller) CurrentFragments() (render.Fragments, bool, error) {
	res, _, ok := c.slot.Current()
	if !ok {
		return render.Fragments{}, false, nil
	}
	f, err := c.renderer.Render(res)
	return f, err == nil, err
}

// CopyAll puts the aggregated text of the current result on the clipboard.
func (c *Controller) CopyAll() error {
	text, err := c.exporter.CopyAll()
	if err != nil {
		c.notify(err)
		return err
	}
	if c.clip == nil {
		err := &export.ClipboardError{Primary: errors.New("no clipboard"), Fallback: errors.New("no clipboard")}
		c.notify(err)
		return err
	}
	if err := c.clip.WriteText(text); err != nil {
		c.logger.Printf("[ui] copy error: %v", err)
		c.notify(err)
		return err
	}
	if r, ok := c.clip.(export.Reporter); ok && r.ReportsCopyResult() {
		c.infof("copy handed to the page")
		return nil
	}
	c.view.Notify(Notice{Level: LevelSuccess, Message: "复制成功！", TTL: c.noticeTTL})
	return nil
}

// Download returns the text artifact for the current result.
func (c *Controller) Download() (export.Artifact, error) {
	art, err := c.exporter.Download(c.now())
	if err != nil {
		c.notify(err)
		return export.Artifact{}, err
	}
	c.view.Notify(Notice{Level: LevelSuccess, Message: "文档下载成功！", TTL: c.noticeTTL})
	return art, nil
}

// KeyEvent is a key press from the view. Form is the form state at that moment.
type KeyEvent struct {
	Key         string
	Ctrl        bool
	Meta        bool
	InTextInput bool
	Form        form.Values
}

// HandleKey runs the shortcuts: Ctrl/Cmd+Enter submits, Ctrl/Cmd+C copies
// everything when a result exists and focus is outside text inputs.
// It reports whether the event was consumed.
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent) bool {
	if !ev.Ctrl && !ev.Meta {
		return false
	}
	switch strings.ToLower(ev.Key) {
	case "enter":
		if ev.Form == nil {
			return false
		}
		_, _ = c.Start(ctx, ev.Form)
		return true
	case "c":
		if ev.InTextInput || !c.slot.Has() {
			return false
		}
		_ = c.CopyAll()
		return true
	}
	return false
}
