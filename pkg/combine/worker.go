// File: pkg/combine/worker.go
package combine

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result category of one task.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeRejected
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "errored"
	}
}

// Event is emitted once per completed task.
type Event struct {
	Task    FileTask
	Outcome Outcome
	Reason  Reason
	Err     error
	Total   int // Number of tasks in the run
}

// ProgressFunc receives task events. It is called from worker goroutines
// concurrently and must be safe for that; a nil ProgressFunc is allowed.
type ProgressFunc func(Event)

// Pool is a bounded set of workers that filter and read discovered files.
type Pool struct {
	workers int
	filter  *FilterConfig
	logger  *zap.Logger

	// beforeRead, when set, runs before each accepted file is read.
	beforeRead func(FileTask)
}

// NewPool creates a pool with the given worker count. Counts below one are raised to one.
func NewPool(workers int, filter *FilterConfig, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{workers: workers, filter: filter, logger: logger}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Run processes every task and returns one slot per task, indexed by
// discovery index. It returns only after all workers have exited. A
// cancelled context stops workers from taking new tasks and is reported
// as the error.
func (p *Pool) Run(ctx context.Context, tasks []FileTask, progress ProgressFunc) ([]ResultSlot, error) {
	slots := make([]ResultSlot, len(tasks))

	jobs := make(chan FileTask, len(tasks))
	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	workers := p.workers
	if workers > len(tasks) && len(tasks) > 0 {
		workers = len(tasks)
	}

	p.logger.Debug("Initializing worker pool", zap.Int("workers", workers), zap.Int("tasks", len(tasks)))
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		workerLogger := p.logger.With(zap.Int("workerID", w))
		g.Go(func() error {
			return p.worker(gctx, jobs, slots, progress, workerLogger)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.logger.Debug("All files processed", zap.Int("tasks", len(tasks)))
	return slots, nil
}

// worker drains jobs until the queue is empty or ctx is done.
func (p *Pool) worker(ctx context.Context, jobs <-chan FileTask, slots []ResultSlot, progress ProgressFunc, logger *zap.Logger) error {
	for task := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev := p.process(task, &slots[task.Index], logger)
		if progress != nil {
			ev.Total = len(slots)
			progress(ev)
		}
	}
	return nil
}

// process handles one task and fills its slot at most once.
func (p *Pool) process(task FileTask, s *ResultSlot, logger *zap.Logger) Event {
	logger = logger.With(zap.String("file", task.RelPath))

	if ok, why := p.filter.AcceptExtension(task.Ext); !ok {
		logger.Debug("Skipping file", zap.String("reason", string(why)))
		return Event{Task: task, Outcome: OutcomeRejected, Reason: why}
	}

	meta, err := statFile(task.Path)
	if err != nil {
		return p.fail(task, s, err, logger)
	}
	if ok, why := p.filter.AcceptSize(meta.Size); !ok {
		logger.Debug("Skipping file", zap.String("reason", string(why)), zap.Int64("sizeBytes", meta.Size))
		return Event{Task: task, Outcome: OutcomeRejected, Reason: why}
	}

	binary, err := IsBinaryFile(task.Path)
	if err != nil {
		return p.fail(task, s, newReadError(task.Path, err), logger)
	}
	if ok, why := p.filter.AcceptBinary(binary); !ok {
		logger.Debug("Skipping file", zap.String("reason", string(why)))
		return Event{Task: task, Outcome: OutcomeRejected, Reason: why}
	}

	if p.beforeRead != nil {
		p.beforeRead(task)
	}

	record := &FileRecord{Task: task, Binary: binary, Language: languageOf(task)}
	if binary {
		// Binary content is never read; renderers print a placeholder.
		record.Meta = meta
	} else {
		content, readMeta, err := ReadFile(task.Path)
		if err != nil {
			return p.fail(task, s, err, logger)
		}
		record.Content = content
		record.Meta = readMeta
	}

	s.record = record
	logger.Debug("Processed file", zap.Int64("sizeBytes", record.Meta.Size), zap.Bool("binary", binary))
	return Event{Task: task, Outcome: OutcomeAccepted, Reason: ReasonAccepted}
}

func (p *Pool) fail(task FileTask, s *ResultSlot, err error, logger *zap.Logger) Event {
	kind := KindIO
	var re *ReadError
	if errors.As(err, &re) {
		kind = re.Kind
	}
	s.ferr = &FileError{Task: task, Kind: kind, Err: err}
	logger.Warn("Failed to process file", zap.String("kind", kind.String()), zap.Error(err))
	return Event{Task: task, Outcome: OutcomeErrored, Reason: ReasonReadError, Err: err}
}
