package trainer

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tutor-ml/tutor/internal/dataset"
)

func TestColumnMeans(t *testing.T) {
	means, err := columnMeans([][]float64{
		{1, 2},
		{3, 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, means)

	means, err = columnMeans(nil)
	require.NoError(t, err)
	assert.Nil(t, means)
}

func TestFormatCosts(t *testing.T) {
	tests := []struct {
		in   []float64
		want string
	}{
		{nil, "[]"},
		{[]float64{4}, "[4]"},
		{[]float64{0.5, 0.125}, "[0.5 0.125]"},
		{[]float64{1.0 / 3}, "[0.3333]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCosts(tt.in))
	}
}

func TestEpochLoop_TimesEpochsWithInjectedClock(t *testing.T) {
	mock := clock.NewMock()
	core, logs := observer.New(zapcore.InfoLevel)

	// Without validation the loop never touches the machine, so an empty
	// compiled core is enough to drive it.
	c := &compiled{}
	step := func(dataset.Sample) ([]float64, error) {
		mock.Add(1500 * time.Millisecond)
		return []float64{1}, nil
	}
	err := c.epochLoop(emptySamples(1), nil, step, loopConfig{
		epochs:   1,
		validate: 0,
		rate:     func() float64 { return 0.1 },
		logger:   zap.New(core).Sugar(),
		clock:    mock,
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Message, "(1.50s)"), "got %q", entries[0].Message)
}

func TestEpochLoop_StepErrorAborts(t *testing.T) {
	c := &compiled{}
	step := func(dataset.Sample) ([]float64, error) {
		return nil, errors.New("exploded")
	}
	err := c.epochLoop(emptySamples(2), nil, step, loopConfig{
		epochs:   3,
		validate: 0,
		rate:     func() float64 { return 0 },
		logger:   zap.NewNop().Sugar(),
		clock:    clock.New(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epoch 0, batch 0")
	assert.Contains(t, err.Error(), "exploded")
}
