package job

import (
	"context"
	"time"

	"pacificpro/internal/repository"

	"github.com/rs/zerolog/log"
)

// SyncReconciler mengangkat pesan sinkronisasi FAILED kembali ke antrean
// dengan hitungan retry direset, sambil mencatatnya agar operator tahu
// ada backend yang bermasalah. Penyimpanan invoice asalnya tidak pernah
// tersentuh.
type SyncReconciler struct {
	outboxRepo *repository.OutboxRepository
	interval   time.Duration
	batchSize  int
}

func NewSyncReconciler(outboxRepo *repository.OutboxRepository) *SyncReconciler {
	return &SyncReconciler{
		outboxRepo: outboxRepo,
		interval:   time.Minute,
		batchSize:  50,
	}
}

func (j *SyncReconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", j.interval).Msg("job rekonsiliasi sinkronisasi berjalan")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("job rekonsiliasi sinkronisasi berhenti")
			return
		case <-ticker.C:
			j.reconcile(ctx)
		}
	}
}

func (j *SyncReconciler) reconcile(ctx context.Context) {
	messages, err := j.outboxRepo.GetFailedMessages(ctx, j.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("gagal mengambil pesan gagal")
		return
	}

	for _, msg := range messages {
		log.Warn().
			Int64("message_id", msg.ID).
			Str("message_key", msg.MessageKey).
			Str("last_error", msg.LastError).
			Msg("pesan sinkronisasi gagal, dikembalikan ke antrean")

		if err := j.outboxRepo.Requeue(ctx, msg.ID); err != nil {
			log.Error().Err(err).Int64("message_id", msg.ID).Msg("gagal mengantrekan ulang pesan")
		}
	}
}
