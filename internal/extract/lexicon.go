package extract

import "strings"

// Entry pairs a source-language label with its normalized token.
type Entry struct {
	Label string
	Token string
}

// Colors is the color lexicon. Matching is substring containment and the
// first entry in this slice that appears anywhere in the clause wins, not the
// match that occurs earliest in the text. The slice order is load-bearing:
// full forms sit ahead of their single-character abbreviations so that 紅色
// matches before 紅, and the relative order between colors is part of the
// observable behavior. Do not sort.
var Colors = []Entry{
	{"紅色", "red"}, {"紅", "red"},
	{"橙色", "orange"}, {"橘色", "orange"}, {"橙", "orange"}, {"橘", "orange"},
	{"黃色", "yellow"}, {"黃", "yellow"},
	{"綠色", "green"}, {"綠", "green"},
	{"藍色", "blue"}, {"藍", "blue"},
	{"紫色", "purple"}, {"紫", "purple"},
	{"粉紅色", "pink"}, {"粉色", "pink"}, {"粉", "pink"},
	{"黑色", "black"}, {"黑", "black"},
	{"白色", "white"}, {"白", "white"},
	{"灰色", "gray"}, {"灰", "gray"},
	{"棕色", "brown"}, {"咖啡色", "brown"}, {"棕", "brown"},
	{"金色", "blonde"}, {"金", "blonde"},
	{"銀色", "silver"}, {"銀", "silver"},
}

// Garments lists upper-body garment type words. First match wins, so the
// more specific labels come first (洋裝 before 裙子 before 裙).
var Garments = []Entry{
	{"上衣", "top"}, {"襯衫", "shirt"}, {"T恤", "t-shirt"},
	{"外套", "jacket"}, {"夾克", "jacket"}, {"大衣", "coat"},
	{"毛衣", "sweater"}, {"洋裝", "dress"}, {"連衣裙", "dress"},
	{"裙子", "skirt"}, {"裙", "skirt"}, {"背心", "vest"}, {"制服", "uniform"},
}

// HairStyles lists hair-style words with their normalized tokens.
var HairStyles = []Entry{
	{"長", "long"}, {"短", "short"}, {"直", "straight"},
	{"捲", "curly"}, {"卷", "curly"}, {"波浪", "wavy"},
	{"馬尾", "ponytail"}, {"辮子", "braid"},
}

// GenderHints lists gender and family-role words captured verbatim as the
// card's gender hint.
var GenderHints = []Entry{
	{"男孩", "boy"}, {"女孩", "girl"},
	{"男生", "boy"}, {"女生", "girl"},
	{"哥哥", "older brother"}, {"姊姊", "older sister"}, {"姐姐", "older sister"},
	{"弟弟", "younger brother"}, {"妹妹", "younger sister"},
	{"爸爸", "dad"}, {"媽媽", "mom"},
}

// hairMarkers trigger the hair category. 髮 alone covers 頭髮, 長髮, 髮型.
var hairMarkers = []string{"頭髮", "髮"}

// beardMarkers trigger the facial-hair flag.
var beardMarkers = []string{"鬍子", "鬍鬚", "落腮鬍", "絡腮鬍", "山羊鬍"}

const (
	wearMarker    = "戴"
	glassesMarker = "眼鏡"
	hatMarker     = "帽"
)

// matchEntry returns the first lexicon entry whose label is contained in the
// clause, in lexicon order.
func matchEntry(entries []Entry, clause string) (Entry, bool) {
	for _, e := range entries {
		if strings.Contains(clause, e.Label) {
			return e, true
		}
	}
	return Entry{}, false
}

func containsAny(clause string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(clause, m) {
			return true
		}
	}
	return false
}

// Token returns the normalized token for a label previously captured from the
// given lexicon, falling back to the label itself for unknown values.
func Token(entries []Entry, label string) string {
	for _, e := range entries {
		if e.Label == label {
			return e.Token
		}
	}
	return label
}
