package worker

// audit_worker.go
// Re-inserts history rows whose synchronous append failed. Stock mutations
// commit independently of their audit rows, so this worker is what closes the
// gap when the history insert raced a DB hiccup. Exhausted retries land in the
// DLQ for manual reconciliation.

import (
	"context"
	"encoding/json"
	"fmt"

	"pdstock/internal/model"
	"pdstock/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	AuditReceipt = "receipt"
	AuditRelease = "release"

	maxAuditAttempts = 3
)

// AuditPayload carries everything needed to rebuild the missing history row.
type AuditPayload struct {
	Kind        string `json:"kind"`
	ThaiName    string `json:"thai_name"`
	EnglishName string `json:"english_name"`
	BatchNo     string `json:"batch_no"`
	Exp         string `json:"exp"`
	Quantity    int    `json:"quantity"`
	ProcessedBy string `json:"processed_by"`
	ReleasedTo  string `json:"released_to,omitempty"`
}

type AuditWorker struct {
	history repository.HistoryRepository
	rdb     *redis.Client
}

func NewAuditWorker(history repository.HistoryRepository, rdb *redis.Client) *AuditWorker {
	return &AuditWorker{history: history, rdb: rdb}
}

func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("audit_worker: invalid payload")
		return
	}

	err := withRetry(ctx, maxAuditAttempts, func(attempt int) error {
		appendErr := w.append(ctx, payload)
		if appendErr != nil {
			log.Warn().Err(appendErr).
				Int("attempt", attempt+1).
				Str("kind", payload.Kind).
				Str("batch_no", payload.BatchNo).
				Msg("audit_worker: append attempt failed")
		}
		return appendErr
	})
	if err != nil {
		log.Error().Err(err).
			Str("kind", payload.Kind).
			Str("batch_no", payload.BatchNo).
			Msg("audit_worker: all attempts failed, moving to DLQ")
		SendToDLQ(ctx, w.rdb, QueueAudit, jobTypeAudit, raw,
			fmt.Sprintf("max retries (%d) exceeded: %v", maxAuditAttempts, err),
			maxAuditAttempts)
		return
	}

	log.Info().
		Str("kind", payload.Kind).
		Str("batch_no", payload.BatchNo).
		Msg("audit_worker: history row recovered")
}

func (w *AuditWorker) append(ctx context.Context, payload AuditPayload) error {
	switch payload.Kind {
	case AuditReceipt:
		return w.history.AppendReceipt(ctx, &model.ReceiptHistory{
			ThaiName:    payload.ThaiName,
			EnglishName: payload.EnglishName,
			BatchNo:     payload.BatchNo,
			Exp:         payload.Exp,
			Quantity:    payload.Quantity,
			ProcessedBy: payload.ProcessedBy,
		})
	case AuditRelease:
		return w.history.AppendRelease(ctx, &model.ReleaseHistory{
			ThaiName:    payload.ThaiName,
			EnglishName: payload.EnglishName,
			BatchNo:     payload.BatchNo,
			Exp:         payload.Exp,
			Quantity:    payload.Quantity,
			ProcessedBy: payload.ProcessedBy,
			ReleasedTo:  payload.ReleasedTo,
		})
	default:
		return fmt.Errorf("unknown audit kind %q", payload.Kind)
	}
}
