package tilecache

// NetworkStatus carries the connectivity signals the host pushes in.
// EffectiveType uses the Network Information API vocabulary
// ("slow-2g", "2g", "3g", "4g"); an empty string means unknown.
type NetworkStatus struct {
	Online        bool
	SaveData      bool
	EffectiveType string
}

func defaultNetworkStatus() NetworkStatus {
	return NetworkStatus{Online: true}
}

// Decision is the outcome of a prefetch policy check. Reason is empty
// when prefetching is allowed.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonPerformanceMode = "performance-mode"
	ReasonOffline         = "offline"
	ReasonCooldown        = "cooldown"
	ReasonSaveData        = "save-data"

	reasonLowBandwidthPrefix = "low-bandwidth:"
)

var slowTiers = map[string]bool{
	"slow-2g": true,
	"2g":      true,
	"3g":      true,
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(reason string) Decision {
	return Decision{Reason: reason}
}
