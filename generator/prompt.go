package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System string
	User   string
}

const titleCount = 3
const imageSuggestionCount = 3

// BuildPrompt 生成一次推文文案的提示词。
func BuildPrompt(style Style, selected []string) Prompt {
	var sb strings.Builder
	sb.WriteString("你是一名资深小说推文写手，请只输出 JSON，不要额外解释，不要使用代码块。\n")
	sb.WriteString("要求：\n")
	sb.WriteString(fmt.Sprintf("- 风格：%s（%s，语气%s）。\n", style.Name, style.Description, style.Tone))
	sb.WriteString(fmt.Sprintf("- 给出 %d 个热门标题，每个不超过 30 字。\n", titleCount))
	sb.WriteString("- 写一篇 300~500 字的主体文案，必须自然融入以下全部写作工具：\n")
	for i, t := range selected {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, t))
	}
	sb.WriteString(fmt.Sprintf("- 给出 %d 条配图建议，描述画面、构图和色调。\n", imageSuggestionCount))
	sb.WriteString(`- 输出格式：{"titles": ["..."], "text": "...", "image_suggestions": ["..."]}` + "\n")

	return Prompt{
		System: "严守 JSON 结构，禁止输出额外说明。",
		User:   sb.String(),
	}
}
