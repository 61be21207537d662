package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bulkbuddy/bulkbuddy-backend/api/responses"
	pkgerrors "github.com/bulkbuddy/bulkbuddy-backend/pkg/errors"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy caps auth traffic per source IP and per submitted
// email over a rolling window. A zero limit disables that dimension.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

// counterKey namespaces the Redis counter by dimension and policy name.
func (p AuthRateLimitPolicy) counterKey(scope, subject string) string {
	return fmt.Sprintf("rl:%s:%s:%s", scope, p.name, subject)
}

// rateCheck is one throttled dimension of a single request.
type rateCheck struct {
	scope   string
	subject string
	limit   int
}

// AuthRateLimit enforces per-IP and per-email counters for auth endpoints.
// Emails are hashed before they become Redis keys or log fields.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	disabled := store == nil || policy.window <= 0 ||
		(policy.ipLimit <= 0 && policy.emailLimit <= 0)

	return func(next http.Handler) http.Handler {
		if disabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			checks := make([]rateCheck, 0, 2)
			if policy.ipLimit > 0 {
				if ip := callerIP(r); ip != "" {
					checks = append(checks, rateCheck{scope: "ip", subject: ip, limit: policy.ipLimit})
				}
			}
			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if fingerprint := emailFingerprint(body); fingerprint != "" {
					checks = append(checks, rateCheck{scope: "email", subject: fingerprint, limit: policy.emailLimit})
				}
			}

			for _, check := range checks {
				count, err := store.IncrWithTTL(ctx, policy.counterKey(check.scope, check.subject), policy.window)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count <= int64(check.limit) {
					continue
				}
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"scope":          check.scope,
						"subject":        check.subject,
						"policy":         policy.name,
						"attempts":       count,
						"limit":          check.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "auth.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// callerIP resolves the originating address, trusting proxy headers first.
func callerIP(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(part); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// emailFingerprint hashes the submitted email so raw addresses never reach
// Redis or the logs. Unparseable payloads yield no fingerprint.
func emailFingerprint(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
