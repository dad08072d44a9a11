package shared

// Task types cho asynq background jobs
const (
	TypeProcessProductMedia = "media:process_variants"
	TypePurgeDeleted        = "product:purge_deleted"
)

// Queue names theo priority
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// ProcessProductMediaPayload - payload cho media variant job
type ProcessProductMediaPayload struct {
	ProductID string `json:"product_id"`
}

// PurgeDeletedPayload - payload cho scheduled purge job
type PurgeDeletedPayload struct {
	OlderThanDays int `json:"older_than_days"`
}
