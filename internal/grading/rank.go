package grading

import (
	"fmt"
	"sort"
	"strings"
)

// TieBreakPolicy decides how equal GPAs are ranked.
type TieBreakPolicy string

const (
	// TieBreakFirstMatch gives every tied GPA the rank of its first occurrence in the
	// descending order; the next distinct GPA keeps its positional rank (1, 2, 2, 4).
	TieBreakFirstMatch TieBreakPolicy = "first_match"
	// TieBreakDense gives consecutive ranks to distinct GPAs (1, 2, 2, 3).
	TieBreakDense TieBreakPolicy = "dense"
)

// ParseTieBreakPolicy accepts the configured policy name. Empty means first_match.
func ParseTieBreakPolicy(raw string) (TieBreakPolicy, error) {
	switch TieBreakPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TieBreakFirstMatch:
		return TieBreakFirstMatch, nil
	case TieBreakDense:
		return TieBreakDense, nil
	default:
		return "", fmt.Errorf("unknown tie-break policy %q", raw)
	}
}

// RankOf returns the 1-based rank of studentGPA among all. It returns 0 when the GPA
// is not part of the cohort. all is not modified.
func RankOf(studentGPA float64, all []float64, policy TieBreakPolicy) int {
	sorted := sortedDescending(all)
	distinct := 0
	for i, gpa := range sorted {
		if i == 0 || gpa != sorted[i-1] {
			distinct++
		}
		if gpa == studentGPA {
			if policy == TieBreakDense {
				return distinct
			}
			return i + 1
		}
	}
	return 0
}

// Ranks ranks every entry of all, returning ranks in input order.
func Ranks(all []float64, policy TieBreakPolicy) []int {
	sorted := sortedDescending(all)
	rankByGPA := make(map[float64]int, len(sorted))
	distinct := 0
	for i, gpa := range sorted {
		if i > 0 && gpa == sorted[i-1] {
			continue
		}
		distinct++
		if policy == TieBreakDense {
			rankByGPA[gpa] = distinct
		} else {
			rankByGPA[gpa] = i + 1
		}
	}
	ranks := make([]int, len(all))
	for i, gpa := range all {
		ranks[i] = rankByGPA[gpa]
	}
	return ranks
}

func sortedDescending(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted
}
