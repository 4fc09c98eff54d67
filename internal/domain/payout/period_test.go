package payout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriod(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		hk := time.FixedZone("HKT", 8*60*60)

		p, err := NewPeriod(2025, 2, hk)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, hk), p.Start())
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, hk), p.End())
		assert.Equal(t, 28, p.LastDay())
		assert.Equal(t, "202502", p.Key())
		assert.Equal(t, "February 2025", p.String())
	})

	t.Run("NilLocationIsUTC", func(t *testing.T) {
		p, err := NewPeriod(2024, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, p.Start().Location())
		assert.Equal(t, 29, p.LastDay())
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		_, err := NewPeriod(2025, 13, nil)
		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "month", cfgErr.Field)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("InvalidYear", func(t *testing.T) {
		_, err := NewPeriod(0, 1, nil)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestPeriod_CutoffForDay(t *testing.T) {
	p, err := NewPeriod(2025, 9, time.UTC)
	require.NoError(t, err)

	cutoff, err := p.CutoffForDay(20)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.September, 20, 23, 59, 59, 0, time.UTC), cutoff)
	assert.NoError(t, p.ValidateCutoff(cutoff))

	_, err = p.CutoffForDay(31)
	assert.ErrorIs(t, err, ErrInvalidCutoffDay)

	_, err = p.CutoffForDay(0)
	assert.ErrorIs(t, err, ErrInvalidCutoffDay)
}

func TestPeriod_ContainsAndValidateCutoff(t *testing.T) {
	p, err := NewPeriod(2025, 9, time.UTC)
	require.NoError(t, err)

	assert.True(t, p.Contains(p.Start()))
	assert.False(t, p.Contains(p.End()))
	assert.True(t, p.Contains(p.End().Add(-time.Second)))

	assert.ErrorIs(t, p.ValidateCutoff(p.End()), ErrCutoffOutsidePeriod)
	assert.ErrorIs(t, p.ValidateCutoff(p.Start().Add(-time.Second)), ErrCutoffOutsidePeriod)
	assert.NoError(t, p.ValidateCutoff(p.Start()))
}
