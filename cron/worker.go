package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"hireloop/config"
	"hireloop/models"
	"hireloop/services/scheduling"
	"hireloop/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(notifier scheduling.Notifier, directory scheduling.ParticipantDirectory) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifier, directory))

	go monitorRedisConnection()

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifier scheduling.Notifier, directory scheduling.ParticipantDirectory) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] firing reminder for %s %s (booking %s)", p.Target, p.RecipientEmail, p.BookingID)

		if err := notifier.SendEmail(ctx, p.RecipientEmail, p.Title, p.Body); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder email: %v", err)
			return err
		}

		// Push delivery is opportunistic: a missing directory entry or token
		// never fails the task.
		if p.ParticipantID != "" {
			if participant, err := directory.GetByID(ctx, p.ParticipantID); err == nil {
				data := map[string]string{"bookingId": p.BookingID, "target": p.Target}
				if err := notifier.SendPush(ctx, participant, p.Title, p.Body, data); err != nil {
					log.Printf("[ReminderHandler] push delivery failed: %v", err)
				}
			}
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
