package models

import "time"

// SystemMetrics is a point-in-time snapshot of instrumentation counters.
type SystemMetrics struct {
	RequestsTotal            uint64            `json:"requests_total"`
	AverageRequestDurationMs float64           `json:"average_request_duration_ms"`
	CacheHitRatio            float64           `json:"cache_hit_ratio"`
	CacheHits                uint64            `json:"cache_hits"`
	CacheMisses              uint64            `json:"cache_misses"`
	SuggestionFallbacks      map[string]uint64 `json:"suggestion_fallbacks"`
	RecognitionOutcomes      map[string]uint64 `json:"recognition_outcomes"`
	AttendanceRowsSaved      uint64            `json:"attendance_rows_saved"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generated_at"`
}
