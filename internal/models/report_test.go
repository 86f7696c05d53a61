package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange("2021-01-01", "2021-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2021-01-01", r.StartString())
	assert.Equal(t, "2021-01-31", r.EndString())
}

func TestNewDateRange_Invalid(t *testing.T) {
	_, err := NewDateRange("2021-13-01", "2021-01-31")
	assert.Error(t, err)

	_, err = NewDateRange("2021-01-01", "not-a-date")
	assert.Error(t, err)
}

func TestDateRange_ContainsInclusiveEnds(t *testing.T) {
	r, err := NewDateRange("2021-01-01", "2021-01-31")
	require.NoError(t, err)

	// Both ends are in range, including timestamps late in the day.
	assert.True(t, r.Contains(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2021, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2021, 1, 15, 12, 0, 0, 0, time.UTC)))

	assert.False(t, r.Contains(time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSection(t *testing.T) {
	ok := SectionOf([]int{1, 2}, nil)
	assert.NoError(t, ok.Err)
	assert.False(t, ok.Empty())

	empty := SectionOf([]int(nil), nil)
	assert.True(t, empty.Empty())

	failed := SectionOf([]int(nil), errors.New("boom"))
	assert.False(t, failed.Empty())
	assert.Error(t, failed.Err)
}
