package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"studiobook/config"
	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReconcileSweep = "reconcile:sweep"

// InitReconcileWorker runs the periodic consistency sweep in background.
// The sweep is the required backstop for the non-atomicity between the
// ledger and its occupancy mirror; UI-triggered deletes are never the only
// repair mechanism.
func InitReconcileWorker(rec *scheduling.Reconciler) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReconcileSweep, handleSweepTask(rec))

	interval := config.AppConfig.ReconcileIntervalMinutes
	if interval <= 0 {
		interval = 30
	}
	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %dm", interval),
		asynq.NewTask(TypeReconcileSweep, nil),
	); err != nil {
		log.Fatalf("[ReconcileWorker] failed to register sweep schedule: %v", err)
	}

	// Start async worker with retry logic
	go func() {
		log.Println("[ReconcileWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[ReconcileWorker] scheduler stopped: %v", err)
		}
	}()
}

func handleSweepTask(rec *scheduling.Reconciler) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		horizon := config.AppConfig.ReconcileHorizonDays
		if horizon <= 0 {
			horizon = 60
		}
		from := time.Now().Format(utils.DateFormat)
		to := time.Now().AddDate(0, 0, horizon).Format(utils.DateFormat)

		report, err := rec.Reconcile(ctx, from, to)
		if err != nil {
			zap.L().Error("scheduled reconciliation sweep failed", zap.Error(err))
			return err
		}
		if len(report.Escalations) > 0 {
			zap.L().Warn("reconciliation sweep needs human attention",
				zap.Strings("escalations", report.Escalations))
		}
		return nil
	}
}
