package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Agent 负责根据 Request 挑选写作工具并调用模型生成文案。
type Agent struct {
	llm LLMClient
	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{
		llm: llm,
		now: time.Now,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Generate 校验参数、组合工具并生成一组文案。
func (a *Agent) Generate(ctx context.Context, req Request) (Result, error) {
	style, ok := LookupStyle(req.Style)
	if !ok {
		return Result{}, fmt.Errorf("unknown style %q", req.Style)
	}
	if req.Count < MinCount || req.Count > MaxCount {
		return Result{}, fmt.Errorf("count must be between %d and %d", MinCount, MaxCount)
	}

	selected := a.pickTools(req.Count)
	raw, err := a.llm.Complete(ctx, BuildPrompt(style, selected))
	if err != nil {
		return Result{}, err
	}
	res, err := PostProcess(raw, style, selected)
	if err != nil {
		return Result{}, err
	}
	res.GeneratedAt = a.now().Format(timeLayout)
	return res, nil
}

func (a *Agent) pickTools(n int) []string {
	a.mu.Lock()
	perm := a.rnd.Perm(len(tools))
	a.mu.Unlock()

	if n > len(perm) {
		n = len(perm)
	}
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, tools[i])
	}
	return out
}
