package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-backend/models"
)

func TestTodayTomorrowUseBusinessLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 02:00 UTC is still the previous evening in Bogota (UTC-5).
	now := time.Date(2025, 11, 15, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, models.Date("2025-11-14"), Today(now, loc))
	assert.Equal(t, models.Date("2025-11-15"), Tomorrow(now, loc))
}

func TestBeginningOfDay(t *testing.T) {
	in := time.Date(2025, 1, 31, 18, 45, 12, 9, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), BeginningOfDay(in))
}
