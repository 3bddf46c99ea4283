package generator

// Style 描述一种文案风格，Description/Tone 用于表单旁的说明。
type Style struct {
	Tag         string
	Name        string
	Description string
	Tone        string
}

var styles = []Style{
	{Tag: "humorous", Name: "幽默搞笑", Description: "轻松玩梗，用反差制造笑点", Tone: "诙谐"},
	{Tag: "suspense", Name: "悬疑烧脑", Description: "层层设问，把关键信息留到最后", Tone: "紧张"},
	{Tag: "emotional", Name: "情感共鸣", Description: "从人物处境切入，引发代入感", Tone: "温柔"},
	{Tag: "passionate", Name: "热血爽文", Description: "节奏快、爽点密，突出逆袭", Tone: "激昂"},
	{Tag: "sweet", Name: "甜宠治愈", Description: "突出互动细节和心动瞬间", Tone: "甜蜜"},
	{Tag: "angst", Name: "虐心催泪", Description: "铺垫遗憾与错过，情绪逐步递进", Tone: "低沉"},
}

// Tools 是可供组合的推文写作工具。
var tools = []string{
	"悬念钩子", "身份反转", "高能金句", "人设标签", "名场面复刻",
	"冲突开场", "前后对比", "读者代入", "弹幕热梗", "倒计时紧迫感",
	"灵魂反问", "细节特写", "情绪递进", "对话体", "结尾留白",
	"彩蛋暗示",
}

// Styles returns the style catalog in display order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// LookupStyle 按 tag 查找风格。
func LookupStyle(tag string) (Style, bool) {
	for _, s := range styles {
		if s.Tag == tag {
			return s, true
		}
	}
	return Style{}, false
}

// Tools returns the full tool catalog.
func Tools() []string {
	out := make([]string, len(tools))
	copy(out, tools)
	return out
}
