package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Room Inventory",
		Headers: []string{"Room ID", "Building", "Capacity"},
		Rows: []map[string]string{
			{"Room ID": "A-101", "Building": "Science Hall", "Capacity": "40"},
			{"Room ID": "B-204", "Building": "Engineering", "Capacity": "24"},
		},
	}
}

func TestCSV(t *testing.T) {
	payload, err := CSV(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Room ID,Building,Capacity", lines[0])
	assert.Equal(t, "A-101,Science Hall,40", lines[1])
}

func TestCSVQuotesCommas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name"},
		Rows:    []map[string]string{{"Name": "Hall, West Wing"}},
	}
	payload, err := CSV(data)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"Hall, West Wing"`)
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := CSV(Dataset{})
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	payload, err := PDF(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
	assert.Greater(t, len(payload), 500)
}

func TestPDFRequiresHeaders(t *testing.T) {
	_, err := PDF(Dataset{Title: "Empty"})
	assert.Error(t, err)
}
