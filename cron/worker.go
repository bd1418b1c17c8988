package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"divyajyotisha/config"
	"divyajyotisha/services/booking"
	"divyajyotisha/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(bookingSvc booking.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
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
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(bookingSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(bookingSvc booking.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] firing reminder for booking %s", p.BookingID)

		b, err := bookingSvc.Get(ctx, p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] skipping booking %s: %v", p.BookingID, err)
			return nil
		}
		if b.ReminderSent {
			// A manual reminder already went out; the scheduled one fires once.
			log.Printf("[ReminderHandler] booking %s already reminded, skipping", p.BookingID)
			return nil
		}

		_, effects, err := bookingSvc.SendReminder(ctx, p.BookingID)
		if err != nil {
			// A booking that was cancelled, refunded or moved past its slot
			// since enqueue is not a task failure; drop without retrying.
			switch booking.CodeOf(err) {
			case booking.CodeNotFound, booking.CodeInvalidState, booking.CodeAlreadyCancelled:
				log.Printf("[ReminderHandler] skipping booking %s: %v", p.BookingID, err)
				return nil
			}
			log.Printf("[ReminderHandler] failed to send reminder for %s: %v", p.BookingID, err)
			return err
		}

		// Channel failures do not fail the request; retry the task until at
		// least one channel delivers or retries run out.
		for _, e := range effects {
			if e.Ok {
				return nil
			}
		}
		return fmt.Errorf("no channel delivered reminder for booking %s", p.BookingID)
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
