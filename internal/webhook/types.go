package webhook

import "time"

// Config holds webhook endpoint settings.
type Config struct {
	Secret          string        // Shared secret for signature verification; empty disables it
	ProbeEnabled    bool          // GET /webhook answers with a liveness string
	MaxBodyBytes    int64         // Larger bodies are rejected with 413
	AllowedIPs      []string      // IP allowlist (optional), addresses or CIDRs
	RateLimitPerMin int           // Max requests per minute per source, 0 disables
	DedupWindow     time.Duration // Replayed delivery ids inside this window are not re-sent
	StoreTimeout    time.Duration // Bound on the subscription lookup
}

const (
	defaultMaxBodyBytes = 25 << 20 // the forge caps payloads at 25 MB
	defaultStoreTimeout = 5 * time.Second
	probeMessage        = "Listening for webhook connections!"
)

// Request headers set by the forge.
const (
	HeaderEvent        = "X-GitHub-Event"
	HeaderDelivery     = "X-GitHub-Delivery"
	HeaderSignature    = "X-Hub-Signature"
	HeaderSignature256 = "X-Hub-Signature-256"
)

// ChannelsResponse is the acknowledgment body.
type ChannelsResponse struct {
	Channels []string `json:"channels"`
}
