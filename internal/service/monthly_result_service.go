package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/dto"
	"github.com/sahidx/saroyar-sub004/internal/grading"
	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/export"
	"github.com/sahidx/saroyar-sub004/pkg/jobs"
)

// JobTypeGenerateMonthlyResults is the queue job type for asynchronous generation.
const JobTypeGenerateMonthlyResults = "monthly_results.generate"

const resultCachePrefix = "results:cohort:"

type rosterProvider interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Student, error)
}

type examScoreProvider interface {
	ListScoresByStudent(ctx context.Context, studentID string, start, end time.Time) ([]models.ExamScore, error)
}

type attendanceProvider interface {
	WorkingDayAttendance(ctx context.Context, studentID string, period models.Period, workingDays []time.Time) (int, error)
}

type bonusProvider interface {
	Get(ctx context.Context, studentID, batchID string, year, month int) (float64, error)
}

type workingDaysProvider interface {
	WorkingDays(ctx context.Context, period models.Period) ([]time.Time, error)
}

type monthlyResultStore interface {
	Replace(ctx context.Context, run models.MonthlyResultRun, results []models.MonthlyResult) error
	GetRun(ctx context.Context, batchID string, year, month int) (*models.MonthlyResultRun, error)
	ListByCohort(ctx context.Context, batchID string, year, month int) ([]models.MonthlyResult, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.MonthlyResult, error)
}

type batchLister interface {
	List(ctx context.Context) ([]models.Batch, error)
}

type jobDispatcher interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// GenerateMonthlyResultsRequest identifies the cohort to generate.
type GenerateMonthlyResultsRequest struct {
	BatchID string `json:"batch_id" validate:"required"`
	Year    int    `json:"year" validate:"min=2000,max=2100"`
	Month   int    `json:"month" validate:"min=1,max=12"`
}

func (r GenerateMonthlyResultsRequest) key() models.CohortKey {
	return models.CohortKey{BatchID: r.BatchID, Year: r.Year, Month: r.Month}
}

// MonthlyResultConfig tunes ranking, descriptions and caching.
type MonthlyResultConfig struct {
	TieBreak grading.TieBreakPolicy
	Locale   string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// MonthlyResultDeps bundles the providers the aggregator reads from and writes to.
type MonthlyResultDeps struct {
	Roster     rosterProvider
	Batches    batchLister
	Exams      examScoreProvider
	Attendance attendanceProvider
	Bonuses    bonusProvider
	Calendar   workingDaysProvider
	Results    monthlyResultStore
	Queue      jobDispatcher
	Cache      *CacheService
	Metrics    *MetricsService
}

// ExportFile is a rendered cohort result document.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// MonthlyResultService generates, stores and serves monthly results per cohort.
type MonthlyResultService struct {
	deps      MonthlyResultDeps
	cfg       MonthlyResultConfig
	describer grading.Describer
	renderers map[string]export.Renderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	running map[string]struct{}
}

// NewMonthlyResultService constructs the aggregator.
func NewMonthlyResultService(deps MonthlyResultDeps, cfg MonthlyResultConfig, validate *validator.Validate, logger *zap.Logger) *MonthlyResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TieBreak == "" {
		cfg.TieBreak = grading.TieBreakFirstMatch
	}
	csv := export.NewCSVExporter()
	pdf := export.NewPDFExporter("Generated by the coaching center results service")
	return &MonthlyResultService{
		deps:      deps,
		cfg:       cfg,
		describer: grading.NewDescriber(cfg.Locale),
		renderers: map[string]export.Renderer{csv.Extension(): csv, pdf.Extension(): pdf},
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		running:   make(map[string]struct{}),
	}
}

// Generate computes, ranks and stores the results of one cohort, replacing earlier output.
func (s *MonthlyResultService) Generate(ctx context.Context, req GenerateMonthlyResultsRequest) (*models.MonthlyResultSet, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	key := req.key()
	if !s.acquire(key) {
		s.deps.Metrics.RecordGeneration(GenerationConflict, 0, 0)
		return nil, appErrors.Clone(appErrors.ErrGenerationInProgress,
			fmt.Sprintf("result generation already running for %s", key))
	}
	defer s.release(key)

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	set, err := s.generate(ctx, req)
	if err != nil {
		s.deps.Metrics.RecordGeneration(GenerationFailed, 0, 0)
		s.logger.Warn("monthly result generation failed", zap.String("cohort", key.String()), zap.Error(err))
		return nil, err
	}
	elapsed := time.Since(start)
	s.deps.Metrics.RecordGeneration(GenerationSucceeded, len(set.Results), elapsed)
	s.deps.Cache.Invalidate(ctx, cohortCacheKey(key))
	s.logger.Info("monthly results generated",
		zap.String("cohort", key.String()),
		zap.Int("students", len(set.Results)),
		zap.Int("working_days", set.WorkingDays),
		zap.Duration("duration", elapsed),
	)
	return set, nil
}

func (s *MonthlyResultService) generate(ctx context.Context, req GenerateMonthlyResultsRequest) (*models.MonthlyResultSet, error) {
	roster, err := s.deps.Roster.ListByBatch(ctx, req.BatchID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load roster")
	}
	if len(roster) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingRoster, fmt.Sprintf("batch %s has no enrolled students", req.BatchID))
	}

	period := models.MonthPeriod(req.Year, req.Month)
	workingDays, err := s.deps.Calendar.WorkingDays(ctx, period)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to resolve working days")
	}

	results := make([]models.MonthlyResult, 0, len(roster))
	gpas := make([]float64, 0, len(roster))
	for _, student := range roster {
		result, err := s.scoreStudent(ctx, req, student, period, workingDays)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		gpas = append(gpas, result.GPA)
	}

	ranks := grading.Ranks(gpas, s.cfg.TieBreak)
	for i := range results {
		results[i].ClassRank = ranks[i]
	}
	sortResults(results)

	run := models.MonthlyResultRun{BatchID: req.BatchID, Year: req.Year, Month: req.Month, GeneratedAt: s.now()}
	if err := s.deps.Results.Replace(ctx, run, results); err != nil {
		return nil, appErrors.Internal(err, "failed to store monthly results")
	}

	return &models.MonthlyResultSet{
		BatchID:     req.BatchID,
		Year:        req.Year,
		Month:       req.Month,
		WorkingDays: len(workingDays),
		GeneratedAt: run.GeneratedAt,
		Results:     results,
	}, nil
}

// scoreStudent gathers one student's inputs. Absent data becomes zero; provider failures abort.
func (s *MonthlyResultService) scoreStudent(ctx context.Context, req GenerateMonthlyResultsRequest, student models.Student, period models.Period, workingDays []time.Time) (models.MonthlyResult, error) {
	scores, err := s.deps.Exams.ListScoresByStudent(ctx, student.ID, period.Start, period.End)
	if err != nil {
		return models.MonthlyResult{}, appErrors.Internal(err, fmt.Sprintf("failed to load exam scores for student %s", student.ID))
	}
	present, err := s.deps.Attendance.WorkingDayAttendance(ctx, student.ID, period, workingDays)
	if err != nil {
		return models.MonthlyResult{}, appErrors.Internal(err, fmt.Sprintf("failed to load attendance for student %s", student.ID))
	}
	bonus, err := s.deps.Bonuses.Get(ctx, student.ID, req.BatchID, req.Year, req.Month)
	if err != nil {
		return models.MonthlyResult{}, appErrors.Internal(err, fmt.Sprintf("failed to load bonus for student %s", student.ID))
	}

	marks := make([]grading.ExamMark, 0, len(scores))
	for _, sc := range scores {
		marks = append(marks, grading.ExamMark{MarksObtained: sc.MarksObtained, TotalMarks: sc.TotalMarks})
	}
	score := grading.ComputeMonthlyScore(grading.ScoreInput{
		Exams:        marks,
		DaysPresent:  present,
		WorkingDays:  len(workingDays),
		BonusPercent: bonus,
	}, s.describer)

	return models.MonthlyResult{
		StudentID:                  student.ID,
		StudentName:                student.FullName,
		BatchID:                    req.BatchID,
		Year:                       req.Year,
		Month:                      req.Month,
		ExamComponentPercent:       score.ExamComponentPercent,
		AttendanceComponentPercent: score.AttendanceComponentPercent,
		BonusPercent:               score.BonusPercent,
		FinalPercent:               score.FinalPercent,
		GPA:                        score.GPA,
		LetterGrade:                score.LetterGrade,
		GradeDescription:           score.GradeDescription,
		ExamsCounted:               score.ExamsCounted,
		DaysPresent:                present,
		WorkingDays:                len(workingDays),
	}, nil
}

// List returns the stored results of a cohort in rank order. Cached pages are served only
// while they belong to the latest generation run.
func (s *MonthlyResultService) List(ctx context.Context, batchID string, year, month int) (*models.MonthlyResultSet, error) {
	req := GenerateMonthlyResultsRequest{BatchID: batchID, Year: year, Month: month}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	cacheKey := cohortCacheKey(req.key())
	run, err := s.deps.Results.GetRun(ctx, batchID, year, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no results generated for this period")
		}
		return nil, appErrors.Internal(err, "failed to load result run")
	}
	// an entry written by a read that raced a regeneration carries the older run time
	var cached models.MonthlyResultSet
	if s.deps.Cache.Get(ctx, cacheKey, &cached) && cached.GeneratedAt.Equal(run.GeneratedAt) {
		return &cached, nil
	}
	results, err := s.deps.Results.ListByCohort(ctx, batchID, year, month)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load monthly results")
	}

	set := &models.MonthlyResultSet{
		BatchID:     batchID,
		Year:        year,
		Month:       month,
		GeneratedAt: run.GeneratedAt,
		Results:     results,
	}
	if len(results) > 0 {
		set.WorkingDays = results[0].WorkingDays
	}
	s.deps.Cache.Set(ctx, cacheKey, set, s.cfg.CacheTTL)
	return set, nil
}

// StudentHistory returns a student's results across periods, newest first.
func (s *MonthlyResultService) StudentHistory(ctx context.Context, studentID string, limit int) ([]models.MonthlyResult, error) {
	if _, err := s.deps.Roster.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	results, err := s.deps.Results.ListByStudent(ctx, studentID, limit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load student results")
	}
	return results, nil
}

// Export renders the stored cohort results as csv or pdf.
func (s *MonthlyResultService) Export(ctx context.Context, batchID string, year, month int, format string) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	set, err := s.List(ctx, batchID, year, month)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(resultDataset(set))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render results")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("results-%s-%04d-%02d.%s", batchID, year, month, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Enqueue schedules asynchronous generation. A cohort already generating or queued is refused.
func (s *MonthlyResultService) Enqueue(ctx context.Context, req GenerateMonthlyResultsRequest) (*dto.GenerationTicket, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if s.deps.Queue == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceUnavailable, "background generation is disabled")
	}
	key := req.key()
	if s.isRunning(key) {
		s.deps.Metrics.RecordJobEnqueue("duplicate")
		return nil, appErrors.Clone(appErrors.ErrGenerationInProgress, fmt.Sprintf("result generation already running for %s", key))
	}

	job := jobs.Job{
		ID:       uuid.NewString(),
		Type:     JobTypeGenerateMonthlyResults,
		Key:      key.String(),
		Payload:  req,
		Enqueued: s.now(),
	}
	if err := s.deps.Queue.Enqueue(ctx, job); err != nil {
		if errors.Is(err, jobs.ErrDuplicateJob) {
			s.deps.Metrics.RecordJobEnqueue("duplicate")
			return nil, appErrors.Clone(appErrors.ErrGenerationInProgress, fmt.Sprintf("result generation already queued for %s", key))
		}
		s.deps.Metrics.RecordJobEnqueue("error")
		return nil, appErrors.Wrap(err, appErrors.ErrServiceUnavailable.Code, appErrors.ErrServiceUnavailable.Status, "failed to enqueue generation")
	}
	s.deps.Metrics.RecordJobEnqueue("queued")
	s.logger.Info("monthly result generation queued", zap.String("cohort", key.String()), zap.String("job_id", job.ID))

	return &dto.GenerationTicket{
		JobID:    job.ID,
		BatchID:  req.BatchID,
		Year:     req.Year,
		Month:    req.Month,
		Status:   "queued",
		Enqueued: job.Enqueued,
	}, nil
}

// GenerateForAllBatches generates every batch for the period. Batches without students are
// skipped and one batch failing does not stop the others.
func (s *MonthlyResultService) GenerateForAllBatches(ctx context.Context, year, month int) (*dto.BatchRunSummary, error) {
	batches, err := s.deps.Batches.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list batches")
	}
	summary := &dto.BatchRunSummary{Year: year, Month: month, Generated: []string{}, Skipped: []string{}, Failed: []string{}}
	for _, batch := range batches {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		_, err := s.Generate(ctx, GenerateMonthlyResultsRequest{BatchID: batch.ID, Year: year, Month: month})
		switch {
		case err == nil:
			summary.Generated = append(summary.Generated, batch.ID)
		case errors.Is(err, appErrors.ErrMissingRoster), errors.Is(err, appErrors.ErrGenerationInProgress):
			summary.Skipped = append(summary.Skipped, batch.ID)
		default:
			summary.Failed = append(summary.Failed, batch.ID)
		}
	}
	s.logger.Info("batch sweep finished",
		zap.Int("year", year), zap.Int("month", month),
		zap.Int("generated", len(summary.Generated)),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Int("failed", len(summary.Failed)),
	)
	return summary, nil
}

func (s *MonthlyResultService) validate(req GenerateMonthlyResultsRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result period")
	}
	return nil
}

func (s *MonthlyResultService) acquire(key models.CohortKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.running[key.String()]; busy {
		return false
	}
	s.running[key.String()] = struct{}{}
	return true
}

func (s *MonthlyResultService) release(key models.CohortKey) {
	s.mu.Lock()
	delete(s.running, key.String())
	s.mu.Unlock()
}

func (s *MonthlyResultService) isRunning(key models.CohortKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.running[key.String()]
	return busy
}

// sortResults orders by rank, then student id.
func sortResults(results []models.MonthlyResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ClassRank != results[j].ClassRank {
			return results[i].ClassRank < results[j].ClassRank
		}
		return results[i].StudentID < results[j].StudentID
	})
}

func cohortCacheKey(key models.CohortKey) string {
	return resultCachePrefix + key.String()
}

var resultHeaders = []string{"Rank", "Student ID", "Name", "Exam %", "Attendance %", "Bonus %", "Final %", "GPA", "Grade", "Remark"}

func resultDataset(set *models.MonthlyResultSet) export.Dataset {
	rows := make([]map[string]string, 0, len(set.Results))
	for _, r := range set.Results {
		rows = append(rows, map[string]string{
			"Rank":         strconv.Itoa(r.ClassRank),
			"Student ID":   r.StudentID,
			"Name":         r.StudentName,
			"Exam %":       formatPercent(r.ExamComponentPercent),
			"Attendance %": formatPercent(r.AttendanceComponentPercent),
			"Bonus %":      formatPercent(r.BonusPercent),
			"Final %":      formatPercent(r.FinalPercent),
			"GPA":          strconv.FormatFloat(r.GPA, 'f', 1, 64),
			"Grade":        r.LetterGrade,
			"Remark":       r.GradeDescription,
		})
	}
	return export.Dataset{
		Title:    fmt.Sprintf("Monthly results %04d-%02d", set.Year, set.Month),
		Subtitle: fmt.Sprintf("Batch %s, %d working days, generated %s", set.BatchID, set.WorkingDays, set.GeneratedAt.Format(time.RFC3339)),
		Headers:  resultHeaders,
		Rows:     rows,
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// MonthlyResultWorker runs queued generation jobs.
type MonthlyResultWorker struct {
	results *MonthlyResultService
	logger  *zap.Logger
}

// NewMonthlyResultWorker constructs a worker.
func NewMonthlyResultWorker(results *MonthlyResultService, logger *zap.Logger) *MonthlyResultWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MonthlyResultWorker{results: results, logger: logger}
}

// Handle processes a queue job. Validation and missing-roster failures are final; anything
// else is returned so the queue retries it.
func (w *MonthlyResultWorker) Handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(GenerateMonthlyResultsRequest)
	if !ok {
		w.logger.Error("unexpected job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	_, err := w.results.Generate(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, appErrors.ErrMissingRoster), errors.Is(err, appErrors.ErrValidation):
		w.logger.Warn("generation job dropped", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	default:
		return err
	}
}
