package models

import "time"

// RateLimit is the state of the core GitHub API request budget
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// LowRateLimitThreshold is the remaining request count below which a warning is logged
const LowRateLimitThreshold = 10

// IsLow reports whether the remaining budget is below LowRateLimitThreshold
func (r *RateLimit) IsLow() bool {
	return r.Remaining < LowRateLimitThreshold
}
