package grading

const (
	ExamWeight       = 0.70
	AttendanceWeight = 0.20
	BonusWeight      = 0.10
)

// ExamMark is one exam submission counted towards a monthly score.
type ExamMark struct {
	MarksObtained float64
	TotalMarks    float64
}

// ScoreInput holds one student's raw inputs for a period.
type ScoreInput struct {
	Exams        []ExamMark
	DaysPresent  int
	WorkingDays  int
	BonusPercent float64
}

// MonthlyScore is the computed outcome for one student, before ranking.
type MonthlyScore struct {
	ExamComponentPercent       float64
	AttendanceComponentPercent float64
	BonusPercent               float64
	FinalPercent               float64
	GPA                        float64
	LetterGrade                string
	GradeDescription           string
	ExamsCounted               int
}

// ExamComponent averages the per-exam percentages. Exams without a positive total are
// skipped; no usable exam yields 0. It also returns how many exams were counted.
func ExamComponent(marks []ExamMark) (float64, int) {
	sum := 0.0
	counted := 0
	for _, m := range marks {
		if m.TotalMarks <= 0 {
			continue
		}
		sum += ClampPercentage(m.MarksObtained / m.TotalMarks * 100)
		counted++
	}
	if counted == 0 {
		return 0, 0
	}
	return sum / float64(counted), counted
}

// AttendanceComponent is present/working*100, or 0 when the period has no working days.
func AttendanceComponent(daysPresent, workingDays int) float64 {
	if workingDays <= 0 || daysPresent <= 0 {
		return 0
	}
	return ClampPercentage(float64(daysPresent) / float64(workingDays) * 100)
}

// FinalPercent applies the 70/20/10 weighting and clamps to [0,100].
func FinalPercent(exam, attendance, bonus float64) float64 {
	return ClampPercentage(ExamWeight*exam + AttendanceWeight*attendance + BonusWeight*bonus)
}

// ComputeMonthlyScore derives the full monthly score for one student. Components are
// rounded before weighting so the stored final always recomputes from the stored components.
func ComputeMonthlyScore(in ScoreInput, describer Describer) MonthlyScore {
	rawExam, counted := ExamComponent(in.Exams)
	exam := Round2(rawExam)
	attendance := Round2(AttendanceComponent(in.DaysPresent, in.WorkingDays))
	bonus := Round2(ClampPercentage(in.BonusPercent))

	final := Round2(FinalPercent(exam, attendance, bonus))
	gpa := GPAFromPercentage(final)
	letter := GradeFromGPA(gpa)

	return MonthlyScore{
		ExamComponentPercent:       exam,
		AttendanceComponentPercent: attendance,
		BonusPercent:               bonus,
		FinalPercent:               final,
		GPA:                        gpa,
		LetterGrade:                letter,
		GradeDescription:           describer.Describe(letter),
		ExamsCounted:               counted,
	}
}
