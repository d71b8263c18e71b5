package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractionStatus_IsTerminal(t *testing.T) {
	assert.False(t, ExtractionRunning.IsTerminal())
	assert.True(t, ExtractionCompleted.IsTerminal())
	assert.True(t, ExtractionFailed.IsTerminal())
}

func TestExtraction_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	running := Extraction{CreatedAt: start}
	assert.Zero(t, running.Duration())

	done := Extraction{CreatedAt: start, CompletedAt: start.Add(3 * time.Second)}
	assert.Equal(t, 3*time.Second, done.Duration())
}
