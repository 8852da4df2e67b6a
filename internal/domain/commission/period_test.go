package commission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod_Valid(t *testing.T) {
	p, err := ParsePeriod("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, "2025-03", p.String())
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, key := range []string{"", "2025", "2025-13", "2025/03", "03-2025", "2025-3-1"} {
		_, err := ParsePeriod(key)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "key %q", key)
	}
}

func TestPeriod_Bounds_HalfOpen(t *testing.T) {
	p, err := ParsePeriod("2025-02")
	require.NoError(t, err)

	from, to := p.Bounds()
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), to)

	// First instant is inside, the upper bound is not.
	assert.True(t, p.Contains(from))
	assert.True(t, p.Contains(time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(to))
	assert.False(t, p.Contains(from.Add(-time.Nanosecond)))
}

func TestPeriod_Previous_CrossesYear(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	prev := p.Previous()
	assert.Equal(t, 2024, prev.Year)
	assert.Equal(t, time.December, prev.Month)
}

func TestPeriodOf(t *testing.T) {
	p := PeriodOf(time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-07", p.String())
}
