package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahidx/saroyar-sub004/internal/dto"
	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/internal/service"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

type resultServiceMock struct {
	set         *models.MonthlyResultSet
	generateErr error
	ticket      *dto.GenerationTicket
	enqueueErr  error
	file        *service.ExportFile
	lastFormat  string
	lastLimit   int
	lastYear    int
	lastMonth   int
}

func (m *resultServiceMock) Generate(ctx context.Context, req service.GenerateMonthlyResultsRequest) (*models.MonthlyResultSet, error) {
	return m.set, m.generateErr
}

func (m *resultServiceMock) Enqueue(ctx context.Context, req service.GenerateMonthlyResultsRequest) (*dto.GenerationTicket, error) {
	return m.ticket, m.enqueueErr
}

func (m *resultServiceMock) List(ctx context.Context, batchID string, year, month int) (*models.MonthlyResultSet, error) {
	m.lastYear, m.lastMonth = year, month
	if m.set == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no results generated for this period")
	}
	return m.set, nil
}

func (m *resultServiceMock) Export(ctx context.Context, batchID string, year, month int, format string) (*service.ExportFile, error) {
	m.lastFormat = format
	return m.file, nil
}

func (m *resultServiceMock) StudentHistory(ctx context.Context, studentID string, limit int) ([]models.MonthlyResult, error) {
	m.lastLimit = limit
	return []models.MonthlyResult{{StudentID: studentID}}, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestResultHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &resultServiceMock{set: &models.MonthlyResultSet{BatchID: "b1", Year: 2024, Month: 5, Results: []models.MonthlyResult{{StudentID: "s1", ClassRank: 1}}}}
	h := NewResultHandler(mock)

	payload, _ := json.Marshal(service.GenerateMonthlyResultsRequest{BatchID: "b1", Year: 2024, Month: 5})
	c, w := newGinContext(http.MethodPost, "/results/generate", payload)
	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["meta"].(map[string]interface{})["total"])
}

func TestResultHandlerGenerateMapsDomainErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[int]error{
		http.StatusUnprocessableEntity: appErrors.ErrMissingRoster,
		http.StatusConflict:            appErrors.ErrGenerationInProgress,
		http.StatusInternalServerError: appErrors.Internal(context.DeadlineExceeded, "failed to load roster"),
	}
	for status, err := range cases {
		h := NewResultHandler(&resultServiceMock{generateErr: err})
		payload, _ := json.Marshal(service.GenerateMonthlyResultsRequest{BatchID: "b1", Year: 2024, Month: 5})
		c, w := newGinContext(http.MethodPost, "/results/generate", payload)
		h.Generate(c)
		assert.Equal(t, status, w.Code)
	}
}

func TestResultHandlerGenerateAsync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewResultHandler(&resultServiceMock{ticket: &dto.GenerationTicket{JobID: "job-1", Status: "queued", Enqueued: time.Now()}})

	payload, _ := json.Marshal(service.GenerateMonthlyResultsRequest{BatchID: "b1", Year: 2024, Month: 5})
	c, w := newGinContext(http.MethodPost, "/results/generate/async", payload)
	h.GenerateAsync(c)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestResultHandlerListValidatesParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &resultServiceMock{}
	h := NewResultHandler(mock)

	c, w := newGinContext(http.MethodGet, "/results/b1/2024/may", nil)
	c.Params = gin.Params{{Key: "batchId", Value: "b1"}, {Key: "year", Value: "2024"}, {Key: "month", Value: "may"}}
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/results/b1/2024/5", nil)
	c.Params = gin.Params{{Key: "batchId", Value: "b1"}, {Key: "year", Value: "2024"}, {Key: "month", Value: "5"}}
	h.List(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 5, mock.lastMonth)
}

func TestResultHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &resultServiceMock{file: &service.ExportFile{Filename: "results-b1-2024-05.pdf", ContentType: "application/pdf", Body: []byte("%PDF")}}
	h := NewResultHandler(mock)

	c, w := newGinContext(http.MethodGet, "/results/b1/2024/5/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "batchId", Value: "b1"}, {Key: "year", Value: "2024"}, {Key: "month", Value: "5"}}
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", mock.lastFormat)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "results-b1-2024-05.pdf")
}

func TestResultHandlerStudentHistoryLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &resultServiceMock{}
	h := NewResultHandler(mock)

	c, w := newGinContext(http.MethodGet, "/students/s1/results?limit=abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.StudentHistory(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/students/s1/results?limit=6", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.StudentHistory(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, mock.lastLimit)
}
