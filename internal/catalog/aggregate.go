package catalog

import (
	"fmt"
	"time"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

// Pure derivation helpers over group-order state. Callers compute these on
// every read; nothing here is persisted beyond the denormalized counters the
// write paths maintain.

// ProgressPercent returns the funding progress toward the bulk minimum,
// clamped to [0, 100].
func ProgressPercent(currentQuantity, minBulkQuantity int) float64 {
	if minBulkQuantity <= 0 {
		return 0
	}
	pct := float64(currentQuantity) / float64(minBulkQuantity) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// GoalReached reports whether contributions have met the bulk minimum.
func GoalReached(currentQuantity, minBulkQuantity int) bool {
	return minBulkQuantity > 0 && currentQuantity >= minBulkQuantity
}

// IsExpired reports whether the contribution window has closed.
func IsExpired(timeLimit, now time.Time) bool {
	return now.After(timeLimit)
}

// IsJoinable reports whether the caller may contribute to the order: vendors
// only, the order must still be Active and unexpired, and the caller must not
// have contributed already.
func IsJoinable(status enums.ProductStatus, timeLimit time.Time, role enums.UserRole, hasContributed bool, now time.Time) bool {
	if role != enums.UserRoleVendor {
		return false
	}
	if hasContributed {
		return false
	}
	return status == enums.ProductStatusActive && !IsExpired(timeLimit, now)
}

// TimeRemaining renders the time left in the contribution window. Expired
// orders render as "Ended".
func TimeRemaining(timeLimit, now time.Time) string {
	if IsExpired(timeLimit, now) {
		return "Ended"
	}
	remaining := timeLimit.Sub(now)
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "<1m"
	}
}
