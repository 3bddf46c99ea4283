package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	// 把提示词里的工具列表原样拼进正文，方便肉眼核对。
	var picked []string
	for _, line := range strings.Split(prompt.User, "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, ". "); i > 0 && i < 4 {
			picked = append(picked, line[i+2:])
		}
	}
	out := map[string]any{
		"titles": []string{
			"这本书我熬夜看完了，结局谁懂啊",
			"开局就是名场面，越看越上头",
			"书荒的姐妹快冲，这本真的绝",
		},
		"text": "这里是一段示例推文文案。\n\n用到的写作工具：" + strings.Join(picked, "、"),
		"image_suggestions": []string{
			"雨夜街角，主角背影，冷色调",
			"书页特写，暖光，浅景深",
			"双人对峙，对角线构图，高对比",
		},
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
