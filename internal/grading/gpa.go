// Package grading holds the pure grading rules used for monthly results: percentage to
// GPA bands, letter grades and their descriptions, class ranking, and the weighted
// monthly score formula.
package grading

import (
	"math"

	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

type gpaBand struct {
	minPercent float64
	gpa        float64
}

// checked in order, first match wins
var gpaBands = []gpaBand{
	{90, 5.0},
	{85, 4.5},
	{80, 4.0},
	{75, 3.5},
	{70, 3.0},
	{65, 2.5},
	{60, 2.0},
	{55, 1.5},
	{50, 1.0},
}

type letterBand struct {
	minGPA float64
	letter string
}

var letterBands = []letterBand{
	{5.0, "A+"},
	{4.5, "A"},
	{4.0, "A-"},
	{3.5, "B+"},
	{3.0, "B"},
	{2.5, "B-"},
	{2.0, "C+"},
	{1.5, "C"},
	{1.0, "D"},
}

// FailingGrade is assigned below the lowest letter band.
const FailingGrade = "F"

// ValidatePercentage rejects values outside [0,100], NaN and infinities.
func ValidatePercentage(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 100 {
		return appErrors.ErrInvalidPercentage
	}
	return nil
}

// ClampPercentage forces p into [0,100]. NaN becomes 0.
func ClampPercentage(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// GPAFromPercentage maps a percentage to its GPA point. Out-of-range input is clamped.
func GPAFromPercentage(percentage float64) float64 {
	p := ClampPercentage(percentage)
	for _, band := range gpaBands {
		if p >= band.minPercent {
			return band.gpa
		}
	}
	return 0
}

// GradeFromGPA maps a GPA point to its letter grade.
func GradeFromGPA(gpa float64) string {
	for _, band := range letterBands {
		if gpa >= band.minGPA {
			return band.letter
		}
	}
	return FailingGrade
}

// Round2 rounds half-to-even at two decimals.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
