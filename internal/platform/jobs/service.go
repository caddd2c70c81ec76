package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	JobSessionSweep     = "session_sweep"
	JobNotificationPoll = "notification_poll"
)

// Run is one job execution; details end up in the run record.
type Run func(context.Context) (any, error)

type RunRecord struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	Duration  string    `json:"duration"`
}

type job struct {
	Type string
	Run  Run
}

// Service runs scheduled portal jobs on a single worker so runs of the same job never
// overlap.
type Service struct {
	cron  *cron.Cron
	queue chan job

	mu   sync.Mutex
	last map[string]RunRecord
}

func New() *Service {
	return &Service{
		cron:  cron.New(),
		queue: make(chan job, 128),
		last:  map[string]RunRecord{},
	}
}

// Every schedules run at a fixed interval. A non-positive interval disables the job.
func (s *Service) Every(jobType string, interval time.Duration, run Run) error {
	if interval <= 0 {
		slog.Info("job disabled", "jobType", jobType)
		return nil
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.Enqueue(jobType, run)
	}); err != nil {
		return fmt.Errorf("schedule %s: %w", jobType, err)
	}
	return nil
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running trigger to return.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Service) Enqueue(jobType string, run Run) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run Run) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) LastRuns() map[string]RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]RunRecord, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	start := time.Now()
	details, err := j.Run(ctx)
	record := RunRecord{
		Type:      j.Type,
		Status:    "completed",
		Details:   details,
		StartedAt: start.UTC(),
		Duration:  time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		record.Status = "failed"
		record.Error = err.Error()
	}
	s.mu.Lock()
	s.last[j.Type] = record
	s.mu.Unlock()
	slog.Debug("job run", "jobType", j.Type, "status", record.Status, "duration", record.Duration)
	return details, err
}
