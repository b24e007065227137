package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want command
		ok   bool
	}{
		{name: "行政區加分類", text: "推薦 東區 火鍋", want: command{District: "東區", Category: "火鍋"}, ok: true},
		{name: "只有行政區", text: "推薦 安平區", want: command{District: "安平區"}, ok: true},
		{name: "只有關鍵字", text: "推薦", want: command{}, ok: true},
		{name: "前後空白", text: "  推薦 中西區  ", want: command{District: "中西區"}, ok: true},
		{name: "多餘欄位忽略", text: "推薦 東區 火鍋 辣的", want: command{District: "東區", Category: "火鍋"}, ok: true},
		{name: "非指令訊息", text: "你好", ok: false},
		{name: "關鍵字須在開頭", text: "幫我 推薦 東區", ok: false},
		{name: "空訊息", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
