package job

import (
	"context"
	"time"

	"pacificpro/internal/infrastructure/mq"
	"pacificpro/internal/repository"

	"github.com/rs/zerolog/log"
)

// OutboxSender mengirim pesan sinkronisasi PENDING ke Kafka secara
// periodik. Pesan yang melewati anggaran retry ditandai FAILED dan
// diserahkan ke job rekonsiliasi.
type OutboxSender struct {
	outboxRepo *repository.OutboxRepository
	producer   *mq.Producer
	interval   time.Duration
	batchSize  int
	maxRetry   int
}

func NewOutboxSender(outboxRepo *repository.OutboxRepository, producer *mq.Producer, maxRetry int) *OutboxSender {
	return &OutboxSender{
		outboxRepo: outboxRepo,
		producer:   producer,
		interval:   5 * time.Second,
		batchSize:  50,
		maxRetry:   maxRetry,
	}
}

func (j *OutboxSender) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", j.interval).Msg("job pengirim outbox berjalan")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("job pengirim outbox berhenti")
			return
		case <-ticker.C:
			j.processBatch(ctx)
		}
	}
}

func (j *OutboxSender) processBatch(ctx context.Context) {
	messages, err := j.outboxRepo.GetPendingMessages(ctx, j.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("gagal mengambil pesan outbox")
		return
	}

	for _, msg := range messages {
		if err := j.producer.Send(msg.Topic, msg.MessageKey, []byte(msg.Payload)); err != nil {
			j.handleSendFailure(ctx, msg.ID, msg.RetryCount, err)
			continue
		}
		if err := j.outboxRepo.MarkSent(ctx, msg.ID); err != nil {
			log.Error().Err(err).Int64("message_id", msg.ID).Msg("gagal menandai pesan terkirim")
		}
	}
}

func (j *OutboxSender) handleSendFailure(ctx context.Context, id int64, retryCount int, sendErr error) {
	if retryCount+1 >= j.maxRetry {
		log.Error().Err(sendErr).Int64("message_id", id).Msg("pesan outbox melewati batas retry, ditandai gagal")
		if err := j.outboxRepo.MarkFailed(ctx, id, sendErr.Error()); err != nil {
			log.Error().Err(err).Int64("message_id", id).Msg("gagal menandai pesan FAILED")
		}
		return
	}

	log.Warn().Err(sendErr).Int64("message_id", id).Int("retry_count", retryCount+1).Msg("pengiriman pesan outbox gagal, akan diulang")
	if err := j.outboxRepo.IncrementRetryCount(ctx, id, sendErr.Error()); err != nil {
		log.Error().Err(err).Int64("message_id", id).Msg("gagal menaikkan hitungan retry")
	}
}
