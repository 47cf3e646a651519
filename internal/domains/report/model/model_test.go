package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportNow = time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

func TestRangeDefaultsToLast30Days(t *testing.T) {
	from, to, err := ReportQuery{}.Range(reportNow)
	require.NoError(t, err)

	assert.Equal(t, reportNow, to)
	assert.Equal(t, reportNow.AddDate(0, 0, -30), from)
}

func TestRangeExplicitBoundsAreInclusive(t *testing.T) {
	q := ReportQuery{From: "2026-08-01", To: "2026-08-31"}

	from, to, err := q.Range(reportNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
	// the To day itself counts
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), to)
}

func TestRangeSingleDay(t *testing.T) {
	q := ReportQuery{From: "2026-08-15", To: "2026-08-15"}

	from, to, err := q.Range(reportNow)
	require.NoError(t, err)
	assert.True(t, from.Before(to))
}

func TestRangeRejectsReversedBounds(t *testing.T) {
	q := ReportQuery{From: "2026-08-31", To: "2026-08-01"}

	_, _, err := q.Range(reportNow)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestRangeRejectsGarbageDates(t *testing.T) {
	_, _, err := ReportQuery{From: "hôm qua"}.Range(reportNow)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestValidateChecksDateFormat(t *testing.T) {
	assert.NoError(t, ReportQuery{From: "2026-08-01", To: "2026-08-31"}.Validate())
	assert.NoError(t, ReportQuery{}.Validate())
	assert.Error(t, ReportQuery{From: "31/08/2026"}.Validate())
}
