package application

import (
	"regexp"
	"strings"
)

var (
	summaryPattern = regexp.MustCompile(`整理|總結|summary`)
	resetPattern   = regexp.MustCompile(`新故事|重新開始|重來一次`)
	drawPattern    = regexp.MustCompile(`(畫|請畫|幫我畫)第([一二三四五12345])段`)
)

var sceneNumbers = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5,
	"1": 1, "2": 2, "3": 3, "4": 4, "5": 5,
}

// parseDrawCommand recognizes "畫第N段" and variants. It returns the
// zero-based paragraph index and whatever extra description the user attached
// around the command.
func parseDrawCommand(text string) (index int, extra string, ok bool) {
	m := drawPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	n, known := sceneNumbers[m[2]]
	if !known {
		return 0, "", false
	}
	extra = strings.Trim(drawPattern.ReplaceAllString(text, ""), " ，,。.!！")
	return n - 1, extra, true
}
