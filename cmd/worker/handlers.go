package main

import (
	"github.com/hibiken/asynq"

	productJob "agatecity-backend/internal/domains/product/job"
	"agatecity-backend/internal/shared"
	"agatecity-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processMedia *productJob.ProcessMediaHandler
	purgeDeleted *productJob.PurgeHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processMedia: productJob.NewProcessMediaHandler(c.ProductService),
		purgeDeleted: productJob.NewPurgeHandler(c.ProductService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Media tasks
	mux.HandleFunc(shared.TypeProcessProductMedia, h.processMedia.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypePurgeDeleted, h.purgeDeleted.ProcessTask)
}
