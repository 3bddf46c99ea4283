package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// PostProcess 从模型输出中提取 JSON 并组装 Result。
func PostProcess(raw string, style Style, selected []string) (Result, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return Result{}, errors.New("model returned no json object")
	}
	if !gjson.Valid(payload) {
		return Result{}, errors.New("model returned malformed json")
	}

	doc := gjson.Parse(payload)
	titles := stringArray(doc.Get("titles"))
	text := strings.TrimSpace(doc.Get("text").String())
	images := stringArray(doc.Get("image_suggestions"))

	if len(titles) == 0 {
		return Result{}, errors.New("model returned no titles")
	}
	if text == "" {
		return Result{}, errors.New("model returned empty text")
	}
	if len(images) == 0 {
		return Result{}, fmt.Errorf("model returned no image suggestions")
	}

	return Result{
		Titles: titles,
		Body: Body{
			Style:         style.Name,
			ToolCount:     len(selected),
			SelectedTools: selected,
			Text:          text,
		},
		ImageSuggestions: images,
	}, nil
}

// 模型偶尔会包一层 ```json 代码块或前后带说明，这里只取最外层的花括号。
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func stringArray(r gjson.Result) []string {
	var out []string
	for _, item := range r.Array() {
		s := strings.TrimSpace(item.String())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
