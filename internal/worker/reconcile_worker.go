package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/Yash-Soni1/vectra-backend/config"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/mq"
	"github.com/Yash-Soni1/vectra-backend/internal/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

type dlqMessage struct {
	Path     string    `json:"path"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// Reconciler keeps the blob store and the metadata store agreeing on which
// objects exist. It consumes cleanup messages for blobs left behind by
// failed uploads and periodically sweeps both stores for stragglers.
type Reconciler struct {
	files  metadata.FileStore
	blobs  storage.BlobStore
	bucket string
	grace  time.Duration
}

// NewReconciler creates a Reconciler. The sweep grace window comes from
// config; zero disables it.
func NewReconciler(files metadata.FileStore, blobs storage.BlobStore, bucket string) *Reconciler {
	return &Reconciler{
		files:  files,
		blobs:  blobs,
		bucket: bucket,
		grace:  config.AppConfig.ReconcileSweepGrace,
	}
}

// Run consumes cleanup messages until the context ends.
func (r *Reconciler) Run(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueCleanup,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.ReconcileConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	limiter := newLimiter()

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("reconcile worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				r.handleCleanupMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func newLimiter() *rate.Limiter {
	burst := config.AppConfig.ReconcileBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.ReconcileRate
	if rateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(rateLimit), burst)
}

func (r *Reconciler) handleCleanupMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg mq.CleanupMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("reconcile worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := r.removeOrphan(ctx, msg.Path); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if err := r.scheduleRetry(ctx, client, msg, err); err != nil {
			log.Printf("reconcile worker: retry schedule failed: %v", err)
			_ = delivery.Nack(false, true)
			return
		}
	}

	_ = delivery.Ack(false)
}

// removeOrphan deletes the blob unless a metadata row claims it. A row
// showing up after the cleanup was enqueued means the upload recovered.
func (r *Reconciler) removeOrphan(ctx context.Context, path string) error {
	referenced, err := r.files.ExistsByPath(ctx, path)
	if err != nil {
		return err
	}
	if referenced {
		return nil
	}
	err = r.blobs.RemoveObject(ctx, r.bucket, path)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil
	}
	return err
}

func (r *Reconciler) scheduleRetry(ctx context.Context, client *mq.Client, msg mq.CleanupMessage, procErr error) error {
	maxRetry := config.AppConfig.ReconcileRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return r.sendToDLQ(ctx, client, msg, procErr)
	}

	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	delay := pickRetryDelay(nextAttempt, config.AppConfig.ReconcileRetryDelays)
	return client.PublishRetry(ctx, body, delay)
}

func (r *Reconciler) sendToDLQ(ctx context.Context, client *mq.Client, msg mq.CleanupMessage, procErr error) error {
	dlq := dlqMessage{
		Path:     msg.Path,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: time.Now(),
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	return client.PublishDLQ(ctx, body)
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}

// SweepReport summarizes one reconciliation pass.
type SweepReport struct {
	OrphanedBlobs  int
	DanglingFiles  int
	CheckedObjects int
}

const sweepPageSize = 500

// Sweep walks both stores. Blobs with no metadata row are removed; metadata
// rows whose blob is gone are logged for operator attention, never deleted.
// Blobs younger than the grace window are left alone: an upload writes its
// blob before its metadata row, so a fresh unreferenced blob may belong to an
// upload still in flight.
func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	limiter := newLimiter()

	objects, err := r.blobs.ListObjects(ctx, r.bucket, "")
	if err != nil {
		return report, err
	}
	for _, obj := range objects {
		if err := limiter.Wait(ctx); err != nil {
			return report, err
		}
		report.CheckedObjects++
		if r.grace > 0 && time.Since(obj.LastModified) < r.grace {
			continue
		}
		referenced, err := r.files.ExistsByPath(ctx, obj.ObjectName)
		if err != nil {
			return report, err
		}
		if referenced {
			continue
		}
		err = r.blobs.RemoveObject(ctx, r.bucket, obj.ObjectName)
		if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return report, err
		}
		report.OrphanedBlobs++
		log.Printf("reconcile sweep: removed orphaned blob %s", obj.ObjectName)
	}

	for offset := 0; ; offset += sweepPageSize {
		paths, err := r.files.ListPaths(ctx, offset, sweepPageSize)
		if err != nil {
			return report, err
		}
		if len(paths) == 0 {
			break
		}
		for _, p := range paths {
			if err := limiter.Wait(ctx); err != nil {
				return report, err
			}
			_, err := r.blobs.StatObject(ctx, r.bucket, p)
			if errors.Is(err, storage.ErrObjectNotFound) {
				report.DanglingFiles++
				log.Printf("reconcile sweep: metadata row has no blob: %s", p)
				continue
			}
			if err != nil {
				return report, err
			}
		}
		if len(paths) < sweepPageSize {
			break
		}
	}

	return report, nil
}

// RunSweeper runs Sweep on a fixed interval until the context ends.
func (r *Reconciler) RunSweeper(ctx context.Context) {
	every := config.AppConfig.ReconcileSweepEvery
	if every <= 0 {
		every = time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := r.Sweep(ctx)
			if err != nil {
				log.Printf("reconcile sweep failed: %v", err)
				continue
			}
			log.Printf("reconcile sweep: checked=%d orphans=%d dangling=%d",
				report.CheckedObjects, report.OrphanedBlobs, report.DanglingFiles)
		}
	}
}
