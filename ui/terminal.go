package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"novel_tweet_copywriter/render"
)

// TerminalView prints loading state and notices for CLI runs.
type TerminalView struct {
	mu       sync.Mutex
	w        io.Writer
	lastBar  int
	fragment render.Fragments
	shown    bool
}

func NewTerminalView(w io.Writer) *TerminalView {
	return &TerminalView{w: w, lastBar: -1}
}

func (v *TerminalView) SetBusy(busy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !busy && v.lastBar >= 0 {
		fmt.Fprintln(v.w)
		v.lastBar = -1
	}
}

func (v *TerminalView) SetProgress(percent float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	filled := int(percent) / 5
	if filled == v.lastBar {
		return
	}
	v.lastBar = filled
	fmt.Fprintf(v.w, "\r[%s%s] %3.0f%%", strings.Repeat("#", filled), strings.Repeat(" ", 20-filled), percent)
}

func (v *TerminalView) SetStatus(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, "\n%s\n", text)
}

func (v *TerminalView) ShowResult(f render.Fragments) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fragment = f
	v.shown = true
	fmt.Fprintf(v.w, "生成时间: %s\n", f.GeneratedAt)
}

func (v *TerminalView) Notify(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.w, "[%s] %s\n", n.Level, n.Message)
}

// Fragments returns the last rendered result.
func (v *TerminalView) Fragments() (render.Fragments, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fragment, v.shown
}
