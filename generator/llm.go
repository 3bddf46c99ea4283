package generator

import "context"

// LLMClient 接收一次性的 system/user 提示词，返回模型的原始文本（期望是 JSON，
// 由 PostProcess 负责兜底解析）。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 对应配置文件里的 llm 段，provider 为 openai 或 deepseek 时使用。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
