package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const (
	JobLowStockAlerts = "low-stock-alerts"
	JobRecipeRecalc   = "recipe-cost-recalculation"
)

// Task is a job body; the scheduler passes its own context.
type Task func(ctx context.Context) error

// JobScheduler runs the periodic maintenance jobs of the service.
type JobScheduler struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]gocron.Job
}

// JobStatus describes one registered job.
type JobStatus struct {
	Nombre           string     `json:"nombre"`
	ProximaEjecucion *time.Time `json:"proxima_ejecucion,omitempty"`
	UltimaEjecucion  *time.Time `json:"ultima_ejecucion,omitempty"`
}

// NewJobScheduler creates a stopped scheduler with no jobs.
func NewJobScheduler(opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &JobScheduler{
		scheduler: scheduler,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop cancels running tasks and waits for them to return.
func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

// AddJob registers task to run every interval. A run still in progress
// when the next one is due delays it instead of overlapping.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) {
			if err := task(ctx); err != nil {
				log.Error().Err(err).Str("job", name).Msg("background job failed")
			}
		}, js.ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}

	js.jobs[name] = job
	log.Info().Str("job", name).Dur("interval", interval).Msg("registered background job")
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, exists := js.jobs[name]
	if !exists {
		return nil
	}
	delete(js.jobs, name)
	return js.scheduler.RemoveJob(job.ID())
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, exists := js.jobs[name]
	js.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s: %w", name, ErrUnknownJob)
	}
	return job.RunNow()
}

// Status lists the registered jobs by name.
func (js *JobScheduler) Status() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	out := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		st := JobStatus{Nombre: name}
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			st.ProximaEjecucion = &next
		}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			st.UltimaEjecucion = &last
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}
