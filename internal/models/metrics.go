package models

import "time"

// SystemMetrics is a lightweight snapshot of process instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	PlansComputed            uint64    `json:"plans_computed"`
	GenerationCalls          uint64    `json:"generation_calls"`
	GenerationFailures       uint64    `json:"generation_failures"`
	AverageGenerationMs      float64   `json:"average_generation_ms"`
	ExportsFinished          uint64    `json:"exports_finished"`
	ExportsFailed            uint64    `json:"exports_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
