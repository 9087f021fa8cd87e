package engine

import (
	"context"
	"runtime"
	"sync"

	"mmony/momo-csv/internal/ledger"
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
)

// DefaultSequentialThreshold is the batch size below which messages are
// processed on the calling goroutine.
const DefaultSequentialThreshold = 100

// cancelCheckInterval is how many messages a worker handles between
// context checks.
const cancelCheckInterval = 256

// outcome is the result of classifying and extracting one message.
type outcome struct {
	category models.Category
	tx       models.Transaction
}

// chunkResult is what one worker produces for a contiguous range of the
// batch. outcomes[i] belongs to message start+i.
type chunkResult struct {
	start    int
	outcomes []outcome
	ledger   *ledger.Ledger
}

// messageFunc classifies and extracts one message into a worker-local ledger.
type messageFunc func(msg models.RawMessage, l *ledger.Ledger) outcome

// processor splits a batch across workers. Each worker owns a contiguous
// chunk, so merging partial results in chunk order keeps archival order.
type processor struct {
	logger    logging.Logger
	workers   int
	threshold int
}

func newProcessor(logger logging.Logger, workers, threshold int) *processor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if threshold <= 0 {
		threshold = DefaultSequentialThreshold
	}
	return &processor{logger: logger, workers: workers, threshold: threshold}
}

// process returns one chunkResult per chunk in batch order.
func (p *processor) process(ctx context.Context, msgs []models.RawMessage, fn messageFunc) ([]chunkResult, error) {
	if len(msgs) < p.threshold || p.workers == 1 {
		res, err := processChunk(ctx, 0, msgs, fn)
		if err != nil {
			return nil, err
		}
		return []chunkResult{res}, nil
	}
	return p.processConcurrent(ctx, msgs, fn)
}

func (p *processor) processConcurrent(ctx context.Context, msgs []models.RawMessage, fn messageFunc) ([]chunkResult, error) {
	workers := p.workers
	if workers > len(msgs) {
		workers = len(msgs)
	}
	size := (len(msgs) + workers - 1) / workers

	var starts []int
	for start := 0; start < len(msgs); start += size {
		starts = append(starts, start)
	}

	results := make([]chunkResult, len(starts))
	errs := make([]error, len(starts))

	var wg sync.WaitGroup
	for i, start := range starts {
		end := min(start+size, len(msgs))
		wg.Add(1)
		go func(i, start, end int) {
			defer wg.Done()
			results[i], errs[i] = processChunk(ctx, start, msgs[start:end], fn)
		}(i, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	p.logger.Debug("Concurrent processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(msgs)},
		logging.Field{Key: logging.FieldWorkers, Value: len(starts)})

	return results, nil
}

func processChunk(ctx context.Context, start int, msgs []models.RawMessage, fn messageFunc) (chunkResult, error) {
	res := chunkResult{
		start:    start,
		outcomes: make([]outcome, len(msgs)),
		ledger:   ledger.New(),
	}
	for i, msg := range msgs {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return chunkResult{}, err
			}
		}
		res.outcomes[i] = fn(msg, res.ledger)
	}
	return res, nil
}
