// Package export formats the current result for the clipboard or a text download.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"novel_tweet_copywriter/generator"
)

// ErrNoResult is returned when nothing has been generated yet.
var ErrNoResult = errors.New("no generated result to export")

// Source hands out the current result and how many generations produced it.
type Source interface {
	Current() (generator.Result, int, bool)
}

// Artifact is a downloadable text file.
type Artifact struct {
	Name        string
	ContentType string
	Content     []byte
}

// Service exports whatever Source currently holds.
type Service struct {
	src    Source
	prefix string
}

func NewService(src Source, prefix string) *Service {
	return &Service{src: src, prefix: prefix}
}

// CopyAll returns the aggregated clipboard text.
func (s *Service) CopyAll() (string, error) {
	res, _, ok := s.src.Current()
	if !ok {
		return "", ErrNoResult
	}
	return CopyAllText(res), nil
}

// Download builds the text artifact named <prefix>_<YYYY-MM-DD>.txt.
func (s *Service) Download(now time.Time) (Artifact, error) {
	res, count, ok := s.src.Current()
	if !ok {
		return Artifact{}, ErrNoResult
	}
	return Artifact{
		Name:        FileName(s.prefix, now),
		ContentType: "text/plain; charset=utf-8",
		Content:     []byte(DownloadText(res, count)),
	}, nil
}

// FileName uses the UTC date, matching an ISO timestamp's date part.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.txt", prefix, now.UTC().Format("2006-01-02"))
}

// CopyAllText renders titles, body, suggestions and timestamp as one block.
func CopyAllText(res generator.Result) string {
	var b strings.Builder
	b.WriteString("🔥 小说推文文案生成结果\n\n")

	b.WriteString("📝 热门标题建议:\n")
	for i, t := range res.Titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}

	b.WriteString("\n📖 主体文案:\n")
	fmt.Fprintf(&b, "\n--- 文案 1 (%s) ---\n", res.Body.Style)
	b.WriteString(res.Body.Text)
	b.WriteString("\n")

	b.WriteString("\n🖼️ 配图建议:\n")
	for i, s := range res.ImageSuggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	fmt.Fprintf(&b, "\n⏰ 生成时间: %s", res.GeneratedAt)
	return b.String()
}

// DownloadText is CopyAllText laid out with section separators.
func DownloadText(res generator.Result, count int) string {
	var b strings.Builder
	b.WriteString("小说推文文案生成结果\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&b, "生成时间: %s\n", res.GeneratedAt)
	fmt.Fprintf(&b, "生成次数: 第%d次\n\n", count)

	b.WriteString("热门标题建议:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	for i, t := range res.Titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}

	b.WriteString("\n主体文案:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "\n[文案 1 - %s]\n", res.Body.Style)
	fmt.Fprintf(&b, "工具数量: %d个\n", res.Body.ToolCount)
	fmt.Fprintf(&b, "包含工具: %s\n\n", strings.Join(res.Body.SelectedTools, "、"))
	b.WriteString(res.Body.Text + "\n")
	b.WriteString("\n" + strings.Repeat("=", 30) + "\n")

	b.WriteString("\n配图建议:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	for i, s := range res.ImageSuggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}
