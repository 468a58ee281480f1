package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsportal/internal/models"
)

func TestWriteHistory(t *testing.T) {
	g := NewReportGenerator("")
	page := &models.Page{
		Records: []*models.MessageRecord{
			{Kind: models.KindSMS, Destination: "+16502530000", Body: "Grüße " + strings.Repeat("x", 200), ProviderID: "SM123", CreatedAt: time.Now()},
		},
		Number:     1,
		Size:       10,
		Total:      1,
		TotalPages: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, g.WriteHistory(&buf, HistoryData{Title: "SMS history", Kind: models.KindSMS, Page: page}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := NewReportGenerator("/does/not/exist.ttf").WriteHistory(&buf, HistoryData{
		Title: "Lookups",
		Kind:  models.KindLookup,
		Page:  &models.Page{Number: 1, Size: 10, TotalPages: 1},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Error(t, NewReportGenerator("").WriteHistory(&buf, HistoryData{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
}
