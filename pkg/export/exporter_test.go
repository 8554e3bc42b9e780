package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:    "Monthly Results",
		Subtitle: "Batch A - 2024/05",
		Headers:  []string{"Rank", "Student", "GPA"},
		Rows: []map[string]string{
			{"Rank": "1", "Student": "Rahim, A.", "GPA": "3.50"},
			{"Rank": "2", "Student": "Karim", "GPA": "0.00"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Rank,Student,GPA\n1,\"Rahim, A.\",3.50\n2,Karim,0.00\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter("").Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, map[string]string{"Rank": "3", "Student": "Filler", "GPA": "1.00"})
	}
	out, err := NewPDFExporter("Coaching Center").Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
