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

// ProcessMediaHandler render thumbnail/medium/large variants cho product images
type ProcessMediaHandler struct {
	productService service.ServiceInterface
}

func NewProcessMediaHandler(productService service.ServiceInterface) *ProcessMediaHandler {
	return &ProcessMediaHandler{
		productService: productService,
	}
}

// ProcessTask xử lý background job render image variants
func (h *ProcessMediaHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessProductMediaPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessProductMedia payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("product_id", payload.ProductID).
		Msg("Processing product media variants")

	if err := h.productService.ProcessProductMedia(ctx, payload.ProductID); err != nil {
		log.Error().
			Err(err).
			Str("product_id", payload.ProductID).
			Msg("Failed to process product media")
		return fmt.Errorf("process product media: %w", err)
	}

	log.Info().
		Str("product_id", payload.ProductID).
		Msg("Product media processed successfully")

	return nil
}
