package ui

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultMessageInterval  = 8 * time.Second
	DefaultProgressInterval = time.Second

	// 进度条最多走到这里，剩下的等请求真正结束。
	progressCeiling = 90
	progressMaxStep = 3
)

// InitialStatus is shown as soon as Loading starts.
const InitialStatus = "AI正在创作中，请稍候..."

// LoadingMessages rotate once per message interval and stop at the last one.
var LoadingMessages = []string{
	"AI正在分析文案风格...",
	"正在智能组合推荐工具...",
	"生成热门标题中...",
	"创作主体文案内容...",
	"制作配图建议...",
	"最后优化和整理...",
}

// startLoading runs the status rotation and progress tasks until the returned
// stop func is called. stop cancels both, waits for them and resets the view.
func (c *Controller) startLoading(parent context.Context) (stop func()) {
	c.view.SetBusy(true)
	c.view.SetProgress(0)
	c.view.SetStatus(InitialStatus)

	ctx, cancel := context.WithCancel(parent)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.rotateMessages(gctx) })
	g.Go(func() error { return c.advanceProgress(gctx) })

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = g.Wait()
			c.view.SetProgress(100)
			c.view.SetProgress(0)
			c.view.SetBusy(false)
		})
	}
}

func (c *Controller) rotateMessages(ctx context.Context) error {
	ticker := time.NewTicker(c.messageInterval)
	defer ticker.Stop()

	for i := 0; i < len(LoadingMessages); {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.view.SetStatus(LoadingMessages[i])
			i++
		}
	}
	return nil
}

func (c *Controller) advanceProgress(ctx context.Context) error {
	ticker := time.NewTicker(c.progressInterval)
	defer ticker.Stop()

	progress := 0.0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if progress >= progressCeiling {
				continue
			}
			progress += c.random() * progressMaxStep
			if progress > progressCeiling {
				progress = progressCeiling
			}
			c.view.SetProgress(progress)
		}
	}
}
