package catalog

import (
	"testing"
	"time"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

func TestProgressPercentClampsAtHundred(t *testing.T) {
	cases := []struct {
		name    string
		current int
		min     int
		want    float64
	}{
		{"zero progress", 0, 500, 0},
		{"partial", 270, 500, 54},
		{"exact goal", 500, 500, 100},
		{"over goal clamps", 750, 500, 100},
		{"zero minimum guards", 10, 0, 0},
		{"negative minimum guards", 10, -5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProgressPercent(tc.current, tc.min); got != tc.want {
				t.Fatalf("ProgressPercent(%d, %d) = %f, want %f", tc.current, tc.min, got, tc.want)
			}
		})
	}
}

func TestGoalReached(t *testing.T) {
	if GoalReached(499, 500) {
		t.Fatal("expected goal not reached at 499/500")
	}
	if !GoalReached(500, 500) {
		t.Fatal("expected goal reached at 500/500")
	}
	if !GoalReached(750, 500) {
		t.Fatal("expected goal reached past the minimum")
	}
	if GoalReached(10, 0) {
		t.Fatal("expected zero minimum to never report reached")
	}
}

func TestIsJoinableMatrix(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name           string
		status         enums.ProductStatus
		timeLimit      time.Time
		role           enums.UserRole
		hasContributed bool
		want           bool
	}{
		{"active vendor fresh", enums.ProductStatusActive, future, enums.UserRoleVendor, false, true},
		{"supplier never joins", enums.ProductStatusActive, future, enums.UserRoleSupplier, false, false},
		{"prior contribution blocks", enums.ProductStatusActive, future, enums.UserRoleVendor, true, false},
		{"expired blocks", enums.ProductStatusActive, past, enums.UserRoleVendor, false, false},
		{"fulfilled blocks", enums.ProductStatusFulfilled, future, enums.UserRoleVendor, false, false},
		{"shipped blocks", enums.ProductStatusShipped, future, enums.UserRoleVendor, false, false},
		{"cancelled blocks", enums.ProductStatusCancelled, future, enums.UserRoleVendor, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsJoinable(tc.status, tc.timeLimit, tc.role, tc.hasContributed, now)
			if got != tc.want {
				t.Fatalf("IsJoinable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := TimeRemaining(now.Add(-time.Minute), now); got != "Ended" {
		t.Fatalf("expected Ended for past limit, got %q", got)
	}
	if got := TimeRemaining(now.Add(50*time.Hour), now); got != "2d 2h" {
		t.Fatalf("expected 2d 2h, got %q", got)
	}
	if got := TimeRemaining(now.Add(3*time.Hour+30*time.Minute), now); got != "3h 30m" {
		t.Fatalf("expected 3h 30m, got %q", got)
	}
	if got := TimeRemaining(now.Add(12*time.Minute), now); got != "12m" {
		t.Fatalf("expected 12m, got %q", got)
	}
	if got := TimeRemaining(now.Add(20*time.Second), now); got != "<1m" {
		t.Fatalf("expected <1m, got %q", got)
	}
}

func TestIsExpiredBoundary(t *testing.T) {
	limit := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if IsExpired(limit, limit) {
		t.Fatal("limit instant itself is not expired")
	}
	if !IsExpired(limit, limit.Add(time.Nanosecond)) {
		t.Fatal("any instant past the limit is expired")
	}
}
