package generator

// Request 是前端表单提交给 /generate 的参数。
type Request struct {
	Style string `json:"style1"`
	Count int    `json:"count1"`
}

// Body 是单条主体文案。
type Body struct {
	Style         string   `json:"风格"`
	ToolCount     int      `json:"工具数量"`
	SelectedTools []string `json:"选中工具"`
	Text          string   `json:"内容"`
}

// Result is one generated copy set. Wire keys follow the original service.
type Result struct {
	Titles           []string `json:"热门标题"`
	Body             Body     `json:"主体文案"`
	ImageSuggestions []string `json:"配图建议"`
	GeneratedAt      string   `json:"生成时间"`
}

// Response wraps Result with the success flag returned by /generate.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Result
}

const (
	MinCount = 6
	MaxCount = 15
)
