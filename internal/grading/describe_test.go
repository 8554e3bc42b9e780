package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeGrade(t *testing.T) {
	assert.Equal(t, "Outstanding", DescribeGrade("A+"))
	assert.Equal(t, "Good", DescribeGrade(" b+ "))
	assert.Equal(t, "Fail", DescribeGrade("F"))
	assert.Equal(t, "Unknown grade", DescribeGrade("Z"))
	assert.Equal(t, "Unknown grade", DescribeGrade(""))
}

func TestDescriberLocales(t *testing.T) {
	bn := NewDescriber("BN")
	assert.Equal(t, "অসাধারণ", bn.Describe("A+"))
	assert.Equal(t, "অজানা গ্রেড", bn.Describe("E"))

	fallback := NewDescriber("fr")
	assert.Equal(t, "Outstanding", fallback.Describe("A+"))

	var zero Describer
	assert.Equal(t, "Pass", zero.Describe("D"))
}

func TestEveryLetterHasADescription(t *testing.T) {
	for locale := range gradeDescriptions {
		d := NewDescriber(locale)
		for _, band := range letterBands {
			assert.NotEqual(t, d.Describe(unknownGradeKey), d.Describe(band.letter), "%s/%s", locale, band.letter)
		}
		assert.NotEqual(t, d.Describe(unknownGradeKey), d.Describe(FailingGrade))
	}
}
