package dto

type PrefetchRequest struct {
	CurrentFrame string `json:"currentFrame" validate:"required"`
	NextFrame    string `json:"nextFrame" validate:"required"`
	MaxPrefetch  int    `json:"maxPrefetch" validate:"omitempty,gt=0"`
}

type PrefetchResponse struct {
	Queued int `json:"queued"`
}

// ConfigRequest is a partial config update; absent fields keep their
// current values.
type ConfigRequest struct {
	MaxFrames             *int   `json:"maxFrames" validate:"omitempty,gt=0"`
	MaxURLsPerFrame       *int   `json:"maxUrlsPerFrame" validate:"omitempty,gt=0"`
	MaxPrefetchPerFrame   *int   `json:"maxPrefetchPerFrame" validate:"omitempty,gt=0"`
	MaxQueueSize          *int   `json:"maxQueueSize" validate:"omitempty,gt=0"`
	MaxConcurrentPrefetch *int   `json:"maxConcurrentPrefetch" validate:"omitempty,gt=0"`
	CooldownThreshold     *int   `json:"consecutiveErrorCooldownThreshold" validate:"omitempty,gt=0"`
	CooldownWindowMs      *int64 `json:"errorCooldownMs" validate:"omitempty,gt=0"`
}

type NetworkRequest struct {
	Online        *bool  `json:"online" validate:"required"`
	SaveData      bool   `json:"saveData"`
	EffectiveType string `json:"effectiveType"`
}

type PerformanceRequest struct {
	Degraded *bool `json:"degraded" validate:"required"`
}
