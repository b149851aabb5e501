package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Reason says why a signature was rejected.
type Reason string

const (
	ReasonMissingSignature  Reason = "missing_signature"
	ReasonUnsupportedDigest Reason = "unsupported_digest"
	ReasonSignatureMismatch Reason = "signature_mismatch"
)

// AuthError is returned when a request fails signature verification. It
// never carries the secret or either digest.
type AuthError struct {
	Reason Reason
	Digest string // set for ReasonUnsupportedDigest
}

func (e *AuthError) Error() string {
	if e.Digest != "" {
		return fmt.Sprintf("signature rejected: %s %q", e.Reason, e.Digest)
	}
	return "signature rejected: " + string(e.Reason)
}

var digests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Verify checks header, formatted "<digest>=<hex>", against an HMAC of body
// keyed with secret. The digest name is matched exactly; the hex part is
// case-insensitive.
func Verify(secret string, body []byte, header string) error {
	if header == "" {
		return &AuthError{Reason: ReasonMissingSignature}
	}

	name, sig, ok := strings.Cut(header, "=")
	if !ok {
		return &AuthError{Reason: ReasonSignatureMismatch}
	}
	newHash, ok := digests[name]
	if !ok {
		return &AuthError{Reason: ReasonUnsupportedDigest, Digest: name}
	}

	expected, err := hex.DecodeString(sig)
	if err != nil {
		return &AuthError{Reason: ReasonSignatureMismatch}
	}

	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(expected, mac.Sum(nil)) {
		return &AuthError{Reason: ReasonSignatureMismatch}
	}
	return nil
}

// Verifier holds the configured secret.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Enabled reports whether requests must be signed.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// VerifyRequest picks the strongest signature header present and checks it.
func (v *Verifier) VerifyRequest(body []byte, h http.Header) error {
	header := h.Get(HeaderSignature256)
	if header == "" {
		header = h.Get(HeaderSignature)
	}
	return Verify(v.secret, body, header)
}

// Guard applies the source allowlist and per-source rate limit.
type Guard struct {
	allowed     []string
	rateLimiter *rateLimiter
}

func NewGuard(allowedIPs []string, rateLimitPerMin int) *Guard {
	return &Guard{
		allowed:     allowedIPs,
		rateLimiter: newRateLimiter(rateLimitPerMin),
	}
}

// ValidateIPAddress checks if ip is allowlisted.
func (g *Guard) ValidateIPAddress(ip string) error {
	if len(g.allowed) == 0 {
		return nil // No IP restriction
	}

	parsed := net.ParseIP(ip)
	for _, allowedIP := range g.allowed {
		if ip == allowedIP {
			return nil
		}

		// Check CIDR range
		if strings.Contains(allowedIP, "/") {
			_, ipNet, err := net.ParseCIDR(allowedIP)
			if err != nil {
				continue
			}
			if parsed != nil && ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckRateLimit enforces rate limiting per source.
func (g *Guard) CheckRateLimit(source string) error {
	if g.rateLimiter == nil {
		return nil
	}
	return g.rateLimiter.Allow(source)
}

// rateLimiter keeps one token bucket per source, evicting idle ones.
type rateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	if requestsPerMin <= 0 {
		return nil
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // Max 1000 unique sources
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: max(1, requestsPerMin/10),
	}
}

func (rl *rateLimiter) Allow(key string) error {
	rl.mu.Lock()
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	rl.mu.Unlock()

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}
