package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamComponent(t *testing.T) {
	avg, counted := ExamComponent([]ExamMark{{MarksObtained: 40, TotalMarks: 50}, {MarksObtained: 60, TotalMarks: 100}})
	assert.InDelta(t, 70.0, avg, 1e-9)
	assert.Equal(t, 2, counted)

	avg, counted = ExamComponent(nil)
	assert.Equal(t, 0.0, avg)
	assert.Equal(t, 0, counted)

	avg, counted = ExamComponent([]ExamMark{{MarksObtained: 10, TotalMarks: 0}, {MarksObtained: 120, TotalMarks: 100}})
	assert.Equal(t, 100.0, avg)
	assert.Equal(t, 1, counted)
}

func TestAttendanceComponent(t *testing.T) {
	assert.Equal(t, 50.0, AttendanceComponent(10, 20))
	assert.Equal(t, 0.0, AttendanceComponent(5, 0))
	assert.Equal(t, 100.0, AttendanceComponent(25, 20))
	assert.Equal(t, 0.0, AttendanceComponent(0, 20))
}

func TestComputeMonthlyScoreWeighting(t *testing.T) {
	d := NewDescriber(LocaleEnglish)

	a := ComputeMonthlyScore(ScoreInput{
		Exams:       []ExamMark{{MarksObtained: 80, TotalMarks: 100}},
		DaysPresent: 20, WorkingDays: 20,
	}, d)
	assert.Equal(t, 80.0, a.ExamComponentPercent)
	assert.Equal(t, 100.0, a.AttendanceComponentPercent)
	assert.Equal(t, 76.0, a.FinalPercent)
	assert.Equal(t, 3.5, a.GPA)
	assert.Equal(t, "B+", a.LetterGrade)
	assert.Equal(t, "Good", a.GradeDescription)

	b := ComputeMonthlyScore(ScoreInput{DaysPresent: 10, WorkingDays: 20}, d)
	assert.Equal(t, 0.0, b.ExamComponentPercent)
	assert.Equal(t, 10.0, b.FinalPercent)
	assert.Equal(t, 0.0, b.GPA)
	assert.Equal(t, "F", b.LetterGrade)
}

func TestComputeMonthlyScoreClampsBonusAndFinal(t *testing.T) {
	s := ComputeMonthlyScore(ScoreInput{
		Exams:        []ExamMark{{MarksObtained: 100, TotalMarks: 100}},
		DaysPresent:  20,
		WorkingDays:  20,
		BonusPercent: 250,
	}, NewDescriber(LocaleEnglish))
	assert.Equal(t, 100.0, s.BonusPercent)
	assert.Equal(t, 100.0, s.FinalPercent)
	assert.Equal(t, 5.0, s.GPA)

	neg := ComputeMonthlyScore(ScoreInput{BonusPercent: -40}, NewDescriber(LocaleEnglish))
	assert.Equal(t, 0.0, neg.FinalPercent)
}

func TestStoredFinalRecomputesFromStoredComponents(t *testing.T) {
	d := NewDescriber(LocaleEnglish)
	for marks := 0; marks <= 300; marks += 7 {
		for present := 0; present <= 23; present++ {
			for _, bonus := range []float64{0, 3.333, 12.5} {
				s := ComputeMonthlyScore(ScoreInput{
					Exams:        []ExamMark{{MarksObtained: float64(marks), TotalMarks: 300}},
					DaysPresent:  present,
					WorkingDays:  23,
					BonusPercent: bonus,
				}, d)
				recomputed := Round2(FinalPercent(s.ExamComponentPercent, s.AttendanceComponentPercent, s.BonusPercent))
				require.Equal(t, recomputed, s.FinalPercent, "marks=%d present=%d bonus=%v", marks, present, bonus)
				require.Equal(t, GPAFromPercentage(s.FinalPercent), s.GPA)
			}
		}
	}

	s := ComputeMonthlyScore(ScoreInput{
		Exams:       []ExamMark{{MarksObtained: 1, TotalMarks: 300}},
		DaysPresent: 12, WorkingDays: 23,
	}, d)
	assert.Equal(t, 0.33, s.ExamComponentPercent)
	assert.Equal(t, 52.17, s.AttendanceComponentPercent)
	assert.Equal(t, Round2(FinalPercent(0.33, 52.17, 0)), s.FinalPercent)
}
