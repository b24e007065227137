package bot

import (
	"strings"
)

// commandKeyword 是觸發推薦的指令開頭。
const commandKeyword = "推薦"

// command 為解析後的推薦指令。Category 為空字串時表示不指定分類。
type command struct {
	District string
	Category string
}

// parseCommand 解析「推薦 <行政區> [分類]」格式的訊息。
// 非指令訊息回傳 ok=false；指令格式正確與否交由呼叫端驗證行政區與分類。
func parseCommand(text string) (command, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || fields[0] != commandKeyword {
		return command{}, false
	}

	cmd := command{}
	if len(fields) > 1 {
		cmd.District = fields[1]
	}
	if len(fields) > 2 {
		cmd.Category = fields[2]
	}
	return cmd, true
}
