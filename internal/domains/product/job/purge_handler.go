package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"agatecity-backend/internal/domains/product/service"
	"agatecity-backend/internal/shared"
)

// PurgeHandler hard-delete các product đã soft delete quá hạn và dọn storage
type PurgeHandler struct {
	productService service.ServiceInterface
}

func NewPurgeHandler(productService service.ServiceInterface) *PurgeHandler {
	return &PurgeHandler{
		productService: productService,
	}
}

// ProcessTask xử lý scheduled purge job
func (h *PurgeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload := shared.PurgeDeletedPayload{OlderThanDays: 30}
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal PurgeDeleted payload")
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	count, err := h.productService.PurgeDeletedProducts(ctx, payload.OlderThanDays)
	if err != nil {
		log.Error().
			Err(err).
			Int("older_than_days", payload.OlderThanDays).
			Msg("Failed to purge deleted products")
		return fmt.Errorf("purge deleted products: %w", err)
	}

	log.Info().
		Int("purged", count).
		Int("older_than_days", payload.OlderThanDays).
		Msg("✅ Purge completed")

	return nil
}
