package trainer

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tutor-ml/tutor/internal/dataset"
)

// stepper advances the trainer by one minibatch and reports its costs.
type stepper func(s dataset.Sample) ([]float64, error)

// loopConfig carries the knobs the shared epoch loop needs from a trainer.
type loopConfig struct {
	epochs   int
	validate int
	rate     func() float64
	logger   *zap.SugaredLogger
	clock    clock.Clock
}

// epochLoop is the training loop shared by the gradient trainers: walk the
// training set in order once per epoch, log one line per epoch with the
// effective rate and per-column mean costs, and score the validation set
// on the configured cadence (epoch 0 included). Any step or evaluation
// error aborts the loop immediately.
func (c *compiled) epochLoop(train, valid dataset.Dataset, step stepper, cfg loopConfig) error {
	if train == nil {
		return errors.New("nil training dataset")
	}
	for epoch := 0; epoch < cfg.epochs; epoch++ {
		start := cfg.clock.Now()

		costs := make([][]float64, 0, train.Len())
		for i := 0; i < train.Len(); i++ {
			cs, err := step(train.Sample(i))
			if err != nil {
				return errors.Wrapf(err, "epoch %d, batch %d", epoch, i)
			}
			costs = append(costs, cs)
		}
		means, err := columnMeans(costs)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("epoch %d[%.2g]: train %s", epoch, cfg.rate(), formatCosts(means))
		if valid != nil && cfg.validate > 0 && epoch%cfg.validate == 0 {
			rows, err := c.Evaluate(valid)
			if err != nil {
				return errors.Wrapf(err, "validating epoch %d", epoch)
			}
			vmeans, err := columnMeans(rows)
			if err != nil {
				return err
			}
			line += " valid " + formatCosts(vmeans)
		}
		cfg.logger.Infof("%s (%.2fs)", line, cfg.clock.Since(start).Seconds())
	}
	return nil
}

// columnMeans averages cost vectors column-wise. Every row has the same
// width because they all come from the same costs vector.
func columnMeans(rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	col := make([]float64, len(rows))
	means := make([]float64, len(rows[0]))
	for j := range means {
		for i, r := range rows {
			col[i] = r[j]
		}
		m, err := stats.Mean(stats.Float64Data(col))
		if err != nil {
			return nil, errors.Wrapf(err, "averaging cost column %d", j)
		}
		means[j] = m
	}
	return means, nil
}

// formatCosts renders a costs vector the way the epoch log reports it.
func formatCosts(cs []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range cs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.4g", c)
	}
	b.WriteByte(']')
	return b.String()
}
