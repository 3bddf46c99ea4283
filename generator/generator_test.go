package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubLLM struct {
	out    string
	err    error
	prompt Prompt
}

func (s *stubLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.prompt = p
	return s.out, s.err
}

func TestPostProcess(t *testing.T) {
	style, _ := LookupStyle("humorous")
	tools := []string{"悬念钩子", "身份反转"}

	t.Run("fenced json", func(t *testing.T) {
		raw := "```json\n{\"titles\":[\"A\",\" \",\"B\"],\"text\":\"正文\",\"image_suggestions\":[\"图1\"]}\n```"
		res, err := PostProcess(raw, style, tools)
		if err != nil {
			t.Fatalf("PostProcess error: %v", err)
		}
		if len(res.Titles) != 2 || res.Titles[1] != "B" {
			t.Fatalf("unexpected titles: %q", res.Titles)
		}
		if res.Body.Style != "幽默搞笑" || res.Body.ToolCount != 2 || res.Body.Text != "正文" {
			t.Fatalf("unexpected body: %+v", res.Body)
		}
	})

	cases := map[string]string{
		"no json":     "sorry",
		"malformed":   `{"titles": [}`,
		"no titles":   `{"titles":[],"text":"x","image_suggestions":["y"]}`,
		"empty text":  `{"titles":["a"],"text":"  ","image_suggestions":["y"]}`,
		"no pictures": `{"titles":["a"],"text":"x"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := PostProcess(raw, style, tools); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		})
	}
}

func TestAgentGenerate(t *testing.T) {
	llm := &stubLLM{out: `{"titles":["t1","t2","t3"],"text":"body","image_suggestions":["i1","i2","i3"]}`}
	agent, err := NewAgent(llm)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	agent.now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }

	res, err := agent.Generate(context.Background(), Request{Style: "suspense", Count: 8})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Body.ToolCount != 8 || len(res.Body.SelectedTools) != 8 {
		t.Fatalf("expected 8 tools, got %+v", res.Body)
	}
	seen := map[string]bool{}
	for _, tool := range res.Body.SelectedTools {
		if seen[tool] {
			t.Fatalf("tool picked twice: %s", tool)
		}
		seen[tool] = true
		if !strings.Contains(llm.prompt.User, tool) {
			t.Fatalf("prompt missing tool %s", tool)
		}
	}
	if res.GeneratedAt != "2026-10-16 09:30:00" {
		t.Fatalf("unexpected timestamp %q", res.GeneratedAt)
	}
}

func TestAgentGenerateRejects(t *testing.T) {
	agent, _ := NewAgent(&stubLLM{err: errors.New("boom")})
	for _, req := range []Request{
		{Style: "nope", Count: 6},
		{Style: "humorous", Count: 5},
		{Style: "humorous", Count: 16},
	} {
		if _, err := agent.Generate(context.Background(), req); err == nil {
			t.Fatalf("expected error for %+v", req)
		}
	}
	if _, err := agent.Generate(context.Background(), Request{Style: "humorous", Count: 6}); err == nil || err.Error() != "boom" {
		t.Fatalf("expected llm error, got %v", err)
	}
}

func TestMockLLMProducesValidResult(t *testing.T) {
	agent, _ := NewAgent(MockLLM{})
	res, err := agent.Generate(context.Background(), Request{Style: "sweet", Count: 15})
	if err != nil {
		t.Fatalf("Generate with mock: %v", err)
	}
	if len(res.Titles) != 3 || len(res.ImageSuggestions) != 3 {
		t.Fatalf("unexpected mock result: %+v", res)
	}
	for _, tool := range res.Body.SelectedTools {
		if !strings.Contains(res.Body.Text, tool) {
			t.Fatalf("mock text should list tool %s", tool)
		}
	}
}

func TestNewOpenAILLMFromConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     *LLMSettings
		wantErr bool
	}{
		{"nil", nil, true},
		{"no key", &LLMSettings{Provider: "openai", Model: "gpt-4o-mini"}, true},
		{"no model", &LLMSettings{Provider: "openai", APIKey: "sk-test"}, true},
		{"openai", &LLMSettings{Provider: "openai", Model: "gpt-4o-mini", APIKey: "sk-test"}, false},
		{"compatible base url", &LLMSettings{Provider: "deepseek", Model: "deepseek-chat", APIKey: "sk-test", BaseURL: "https://api.deepseek.com/v1"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm, err := NewOpenAILLMFromConfig(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if llm.Model != tc.cfg.Model {
				t.Fatalf("model = %q", llm.Model)
			}
			wantOpts := 1
			if tc.cfg.BaseURL != "" {
				wantOpts = 2
			}
			if len(llm.Opts) != wantOpts {
				t.Fatalf("opts = %d, want %d", len(llm.Opts), wantOpts)
			}
		})
	}
}
