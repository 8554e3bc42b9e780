package grading

import "strings"

const (
	LocaleEnglish = "en"
	LocaleBangla  = "bn"
)

const unknownGradeKey = "?"

var gradeDescriptions = map[string]map[string]string{
	LocaleEnglish: {
		"A+":            "Outstanding",
		"A":             "Excellent",
		"A-":            "Very good",
		"B+":            "Good",
		"B":             "Above average",
		"B-":            "Average",
		"C+":            "Below average",
		"C":             "Satisfactory",
		"D":             "Pass",
		"F":             "Fail",
		unknownGradeKey: "Unknown grade",
	},
	LocaleBangla: {
		"A+":            "অসাধারণ",
		"A":             "চমৎকার",
		"A-":            "খুব ভালো",
		"B+":            "ভালো",
		"B":             "গড়ের উপরে",
		"B-":            "গড়",
		"C+":            "গড়ের নিচে",
		"C":             "সন্তোষজনক",
		"D":             "পাস",
		"F":             "অকৃতকার্য",
		unknownGradeKey: "অজানা গ্রেড",
	},
}

// Describer resolves letter grades to descriptions for one locale.
type Describer struct {
	table map[string]string
}

// NewDescriber returns a describer for locale, falling back to English.
func NewDescriber(locale string) Describer {
	table, ok := gradeDescriptions[strings.ToLower(strings.TrimSpace(locale))]
	if !ok {
		table = gradeDescriptions[LocaleEnglish]
	}
	return Describer{table: table}
}

// Describe returns the description for letter, or the locale's unknown fallback.
func (d Describer) Describe(letter string) string {
	table := d.table
	if table == nil {
		table = gradeDescriptions[LocaleEnglish]
	}
	if desc, ok := table[strings.ToUpper(strings.TrimSpace(letter))]; ok {
		return desc
	}
	return table[unknownGradeKey]
}

// DescribeGrade describes letter in English.
func DescribeGrade(letter string) string {
	return NewDescriber(LocaleEnglish).Describe(letter)
}
