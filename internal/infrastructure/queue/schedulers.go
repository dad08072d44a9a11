package queue

import (
	"encoding/json"
	"time"

	"agatecity-backend/internal/config"
	"agatecity-backend/internal/shared"
	"agatecity-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerPurgeDeletedProductsJob()
}

// ================================================
// JOB: Purge Soft-Deleted Products (Daily at 3 AM)
// ================================================
func (s *Scheduler) registerPurgeDeletedProductsJob() error {
	payload, err := json.Marshal(shared.PurgeDeletedPayload{
		OlderThanDays: s.jobConfig.PurgeRetentionDays,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePurgeDeleted, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.PurgeCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register PurgeDeletedProducts job", err)
		return err
	}

	logger.Info("✓ Registered PurgeDeletedProducts", map[string]interface{}{
		"cron":           s.jobConfig.PurgeCron,
		"retention_days": s.jobConfig.PurgeRetentionDays,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
