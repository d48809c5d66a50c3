package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"cleardoor_backend/internal/followup"
	"cleardoor_backend/platform/config"
	"cleardoor_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Worker processes follow-up scan tasks and schedules the daily scan
// via cron. Scan deduplication lives in the notification store, so an
// overlapping manual scan never produces duplicate reminders.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	scanner   *followup.Scanner
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, scanner *followup.Scanner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	cronSpec := cfg.GetFollowUpScanCron()
	if cronSpec == "" {
		cronSpec = "0 7 * * *"
	}

	periodic := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.Local,
	})
	task, err := NewFollowUpScanTask(FollowUpScanPayload{Source: "cron"})
	if err != nil {
		return nil, err
	}
	if _, err := periodic.Register(cronSpec, task, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("failed to register follow-up scan: %w", err)
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: periodic,
		mux:       mux,
		scanner:   scanner,
		log:       log,
	}

	mux.HandleFunc(TaskFollowUpScan, w.handleFollowUpScan)

	return w, nil
}

func (w *Worker) handleFollowUpScan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpScanPayload(task)
	if err != nil {
		return err
	}

	count, err := w.scanner.Scan(ctx)
	if err != nil {
		// Returning the error lets asynq retry the scan.
		return err
	}

	w.log.Info("scheduled follow-up scan done", "source", payload.Source, "due", count)
	return nil
}

// Run starts the cron scheduler and the task server, blocking until
// the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	if err := w.scheduler.Start(); err != nil {
		w.log.Error("scheduler failed to start", "error", err)
		return
	}

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
