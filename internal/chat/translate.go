package chat

import (
	"regexp"
	"strings"
)

// Lang is a response language.
type Lang string

const (
	English Lang = "en"
	Nepali  Lang = "np"
)

// ParseLang accepts "en" and "np" (also "ne"). Anything else is English.
func ParseLang(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "np", "ne", "nepali":
		return Nepali
	default:
		return English
	}
}

type substitution struct {
	re   *regexp.Regexp
	with string
}

// nepaliWords is applied in order. This is word-for-word substitution, not
// translation: sentence structure stays English.
var nepaliWords = compile([][2]string{
	{"apple", "स्याउ"},
	{"banana", "केरा"},
	{"bread", "रोटी"},
	{"rice", "भात"},
	{"chicken", "कुखुरा"},
	{"egg", "अण्डा"},
	{"milk", "दूध"},
	{"pizza", "पिज्जा"},
	{"pasta", "पास्ता"},
	{"chocolate", "चकलेट"},
	{"potato", "आलु"},
	{"carrot", "गाजर"},
	{"orange", "सुन्तला"},
	{"steak", "स्टेक"},
	{"salmon", "सालमन"},
	{"calories", "क्यालोरी"},
	{"protein", "प्रोटीन"},
	{"fat", "बोसो"},
	{"carbohydrate", "कार्बोहाइड्रेट"},
	{"vitamin", "भिटामिन"},
	{"mineral", "खनिज"},
	{"contains", "समावेश छ"},
	{"about", "बारे"},
	{"nutrient", "पोषक तत्व"},
	{"food", "खाना"},
	{"grocery", "किराना"},
	{"list", "सूची"},
	{"items", "सामानहरू"},
	{"nutrition", "पोषण"},
	{"healthy", "स्वस्थ"},
	{"diet", "आहार"},
	{"amazing", "अद्भुत"},
	{"great", "उत्तम"},
	{"wonderful", "अद्भुत"},
	{"delicious", "स्वादिष्ट"},
	{"perfect", "उत्तम"},
	{"love", "माया"},
	{"enjoy", "आनन्द"},
	{"favorite", "मनपर्ने"},
	{"body", "शरीर"},
	{"health", "स्वास्थ्य"},
	{"energy", "ऊर्जा"},
})

func compile(pairs [][2]string) []substitution {
	out := make([]substitution, len(pairs))
	for i, p := range pairs {
		out[i] = substitution{
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p[0]) + `\b`),
			with: p[1],
		}
	}
	return out
}

// Translate substitutes known words, case-insensitively and only as whole
// words. English text is returned unchanged.
func Translate(text string, lang Lang) string {
	if lang != Nepali {
		return text
	}
	for _, s := range nepaliWords {
		text = s.re.ReplaceAllLiteralString(text, s.with)
	}
	return text
}
