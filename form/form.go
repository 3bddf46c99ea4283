// Package form turns submitted form values into a generation request.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"novel_tweet_copywriter/generator"
)

const (
	FieldStyle = "style1"
	FieldCount = "count1"
)

// Values is satisfied by url.Values.
type Values interface {
	Get(key string) string
}

// ValidationError means the user has to correct the form.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Collect reads style and count from the form and checks their bounds.
func Collect(v Values) (generator.Request, error) {
	style := strings.TrimSpace(v.Get(FieldStyle))
	if style == "" {
		return generator.Request{}, &ValidationError{Field: FieldStyle, Reason: "请选择文案风格"}
	}
	if _, ok := generator.LookupStyle(style); !ok {
		return generator.Request{}, &ValidationError{Field: FieldStyle, Reason: "未知的文案风格"}
	}

	count, err := strconv.Atoi(strings.TrimSpace(v.Get(FieldCount)))
	if err != nil {
		return generator.Request{}, &ValidationError{Field: FieldCount, Reason: "工具数量必须是整数"}
	}
	if count < generator.MinCount || count > generator.MaxCount {
		return generator.Request{}, &ValidationError{
			Field:  FieldCount,
			Reason: fmt.Sprintf("工具数量需在 %d~%d 之间", generator.MinCount, generator.MaxCount),
		}
	}

	return generator.Request{Style: style, Count: count}, nil
}
