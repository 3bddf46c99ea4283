// Package render turns a generation result into HTML fragments.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"novel_tweet_copywriter/generator"
)

// ToolSeparator joins selected tool names for display.
const ToolSeparator = "、"

// Fragments holds the rendered sections in display order.
type Fragments struct {
	Titles      template.HTML
	Body        template.HTML
	Images      template.HTML
	GeneratedAt string
}

// HTML concatenates the sections: titles, body, image suggestions.
func (f Fragments) HTML() template.HTML {
	return f.Titles + f.Body + f.Images
}

// Renderer is safe for concurrent use.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

func New() *Renderer {
	return &Renderer{
		md:   goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps())),
		tmpl: template.Must(template.New("fragments").Funcs(funcs).Parse(fragmentTemplates)),
	}
}

type bodyView struct {
	Style     string
	ToolCount int
	Tools     string
	Text      string
	TextHTML  template.HTML
}

// Render has no side effects; an error only comes from the markdown or template engine.
func (r *Renderer) Render(res generator.Result) (Fragments, error) {
	var f Fragments
	var err error

	if f.Titles, err = r.exec("titles", res.Titles); err != nil {
		return Fragments{}, err
	}

	textHTML, err := r.markdown(res.Body.Text)
	if err != nil {
		return Fragments{}, err
	}
	body := bodyView{
		Style:     res.Body.Style,
		ToolCount: res.Body.ToolCount,
		Tools:     strings.Join(res.Body.SelectedTools, ToolSeparator),
		Text:      res.Body.Text,
		TextHTML:  textHTML,
	}
	if f.Body, err = r.exec("body", body); err != nil {
		return Fragments{}, err
	}

	if f.Images, err = r.exec("images", res.ImageSuggestions); err != nil {
		return Fragments{}, err
	}
	f.GeneratedAt = res.GeneratedAt
	return f, nil
}

func (r *Renderer) exec(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// goldmark 默认不输出原始 HTML，模型文本里的标签会被丢弃。
func (r *Renderer) markdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render body text: %w", err)
	}
	return template.HTML(buf.String()), nil
}

var handlerQuoter = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// QuoteForHandler escapes s for use inside a single-quoted JS string literal.
func QuoteForHandler(s string) string {
	return handlerQuoter.Replace(s)
}

func copyHandler(s string) template.JS {
	return template.JS("copyText('" + QuoteForHandler(s) + "')")
}

var funcs = template.FuncMap{
	"inc":         func(i int) int { return i + 1 },
	"copyHandler": copyHandler,
}

const fragmentTemplates = `
{{define "titles"}}{{range $i, $t := .}}<div class="col-12 mb-3"><div class="title-item">
<span class="badge">{{inc $i}}</span><span class="fw-bold">{{$t}}</span>
<button class="btn btn-copy" onclick="{{copyHandler $t}}" title="复制标题">复制</button>
</div></div>
{{end}}{{end}}

{{define "body"}}<div class="content-item mb-4">
<div class="content-header">
<h6>生成的小说推文文案</h6>
<span class="style-badge">{{.Style}}</span><span class="tool-count">{{.ToolCount}}个工具</span>
<div class="action-buttons">
<button class="btn btn-copy" onclick="copyText(this.dataset.content)" data-content="{{.Text}}" title="复制文案">复制</button>
<button class="btn" onclick="showContentModal(this.dataset.style, this.dataset.tools, this.dataset.content)" data-style="{{.Style}}" data-tools="{{.Tools}}" data-content="{{.Text}}" title="全屏查看">详情</button>
</div>
</div>
<small class="text-muted">包含工具: {{.Tools}}</small>
<div class="content-text">{{.TextHTML}}</div>
</div>
{{end}}

{{define "images"}}{{range $i, $s := .}}<div class="col-lg-4 mb-3"><div class="image-suggestion">
<h6>配图建议 {{inc $i}}</h6>
<button class="btn btn-copy" onclick="{{copyHandler $s}}" title="复制建议">复制</button>
<p class="text-muted">{{$s}}</p>
</div></div>
{{end}}{{end}}
`
