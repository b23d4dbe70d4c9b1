package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueInvoice = "jobs:invoice"

const maxJobAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueInvoice pushes an invoice-generation job to Redis. A nil client
// turns this into a no-op so unit tests can run without Redis.
func (d *Dispatcher) EnqueueInvoice(ctx context.Context, payload InvoiceJobPayload) error {
	if d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueInvoice, "invoice", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the invoice queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, iw *InvoiceWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, iw)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, iw *InvoiceWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueInvoice).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1], iw)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string, iw *InvoiceWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	if err := iw.Process(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= maxJobAttempts {
			SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		log.Warn().
			Str("type", job.Type).
			Int("attempt", job.Attempts).
			Err(err).
			Msg("job failed, requeueing")
		if encoded, mErr := json.Marshal(job); mErr == nil {
			_ = rdb.LPush(ctx, queue, encoded).Err()
		}
	}
}
