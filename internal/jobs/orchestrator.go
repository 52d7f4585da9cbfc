package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"dispatchopt/internal/events"
	"dispatchopt/internal/metrics"
	"dispatchopt/internal/model"
	"dispatchopt/internal/opt"
	"dispatchopt/internal/solver"
	"dispatchopt/internal/store"
)

// ErrValidation marks Submit failures caused by the request itself. The API
// layer maps it to 400; everything else is a 500.
var ErrValidation = errors.New("invalid request")

// infeasibleMessage is the job error text for solver infeasibility. Clients
// match on it, so it is fixed.
const infeasibleMessage = "No feasible solution found"

const defaultWorkers = 8

// Orchestrator runs optimization jobs on a bounded worker pool. Submit
// persists the job as running and returns immediately; a worker later moves
// it through processing to done or error, persisting each transition and
// publishing an event for stream subscribers.
type Orchestrator struct {
	store    store.Store
	broker   events.Broker
	balanced opt.Balanced
	queue    chan model.Job
	wg       sync.WaitGroup
	senders  sync.WaitGroup
}

func NewOrchestrator(st store.Store, broker events.Broker, balanced opt.Balanced, workers int) *Orchestrator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	o := &Orchestrator{
		store:    st,
		broker:   broker,
		balanced: balanced,
		queue:    make(chan model.Job, workers*8),
	}
	for i := 0; i < workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for job := range o.queue {
				metrics.QueueDepth.Set(float64(len(o.queue)))
				o.run(job)
			}
		}()
	}
	return o
}

// Submit validates the request, persists the job as running and enqueues it.
// It never blocks on a full queue: a detached goroutine finishes the enqueue
// instead, so Submit returns immediately while execution stays on the fixed
// worker pool. The returned job carries the id and the effective strategy
// (defaulted when the request left it empty).
func (o *Orchestrator) Submit(ctx context.Context, req model.OptimizeRequest) (model.Job, error) {
	if len(req.Warehouses) == 0 {
		return model.Job{}, fmt.Errorf("%w: warehouses are required", ErrValidation)
	}
	if len(req.Orders) == 0 {
		return model.Job{}, fmt.Errorf("%w: orders are required", ErrValidation)
	}
	if req.Strategy == "" {
		req.Strategy = opt.StrategyBalanced
	}
	if !opt.ValidStrategy(req.Strategy) {
		return model.Job{}, fmt.Errorf("%w: unknown strategy %q", ErrValidation, req.Strategy)
	}

	job := model.Job{
		ID:       uuid.New().String(),
		Status:   model.StatusRunning,
		Progress: 0,
		Strategy: req.Strategy,
		Payload:  &req,
	}
	if err := o.store.CreateJob(ctx, job); err != nil {
		return model.Job{}, fmt.Errorf("persist job: %w", err)
	}
	metrics.JobsSubmitted.WithLabelValues(job.Strategy).Inc()

	select {
	case o.queue <- job:
		metrics.QueueDepth.Set(float64(len(o.queue)))
	default:
		o.senders.Add(1)
		go func() {
			defer o.senders.Done()
			o.queue <- job
		}()
	}
	return job, nil
}

// Status returns the read model for a job. store.ErrNotFound passes through.
func (o *Orchestrator) Status(ctx context.Context, id string) (model.JobView, error) {
	job, err := o.store.GetJob(ctx, id)
	if err != nil {
		return model.JobView{}, err
	}
	return model.JobView{
		Status:   job.Status,
		Progress: job.Progress,
		Result:   job.Result,
		Error:    job.Error,
		Strategy: job.Strategy,
	}, nil
}

// Close drains the queue and waits for in-flight jobs. Pending overflow
// enqueues complete before the queue closes.
func (o *Orchestrator) Close() {
	o.senders.Wait()
	close(o.queue)
	o.wg.Wait()
}

func (o *Orchestrator) run(job model.Job) {
	ctx := context.Background()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			log.Printf("job %s panic: %v\n%s", job.ID, r, stack)
			o.finish(ctx, job, nil, fmt.Sprintf("internal error: %v\n%s", r, stack), start)
		}
	}()

	job.Status = model.StatusProcessing
	job.Progress = 10
	if err := o.store.UpdateJob(ctx, job); err != nil {
		log.Printf("job %s: persist processing: %v", job.ID, err)
	}
	o.broker.Publish(ctx, events.JobEvent{
		JobID: job.ID, Type: events.TypeProcessing,
		Status: string(job.Status), Progress: job.Progress,
	})

	result, err := o.execute(ctx, job)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, solver.ErrInfeasible) {
			msg = infeasibleMessage
		}
		o.finish(ctx, job, nil, msg, start)
		return
	}
	o.finish(ctx, job, result, "", start)
}

// execute runs the strategy against per-job clones of the payload so load
// accounting never leaks between jobs.
func (o *Orchestrator) execute(ctx context.Context, job model.Job) (*model.OptimizeResult, error) {
	warehouses := model.CloneWarehouses(job.Payload.Warehouses)
	orders := model.CloneOrders(job.Payload.Orders)

	if job.Strategy == opt.StrategyBalanced {
		return o.balanced.Run(ctx, warehouses, orders)
	}
	strat, ok := opt.Lookup(job.Strategy)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", job.Strategy)
	}
	res := strat.Assign(warehouses, orders)
	return opt.FormatGreedyResult(warehouses, orders, res, job.Strategy), nil
}

func (o *Orchestrator) finish(ctx context.Context, job model.Job, result *model.OptimizeResult, errMsg string, start time.Time) {
	job.Progress = 100
	evType := events.TypeDone
	outcome := "done"
	if errMsg != "" {
		job.Status = model.StatusError
		job.Error = errMsg
		evType = events.TypeError
		outcome = "error"
	} else {
		job.Status = model.StatusDone
		job.Result = result
	}
	if err := o.store.UpdateJob(ctx, job); err != nil {
		log.Printf("job %s: persist %s: %v", job.ID, job.Status, err)
	}
	o.broker.Publish(ctx, events.JobEvent{
		JobID: job.ID, Type: evType,
		Status: string(job.Status), Progress: job.Progress, Error: errMsg,
	})
	metrics.JobsFinished.WithLabelValues(job.Strategy, outcome).Inc()
	metrics.JobDuration.WithLabelValues(job.Strategy).Observe(time.Since(start).Seconds())
}
