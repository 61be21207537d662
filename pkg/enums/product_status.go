package enums

import "fmt"

// ProductStatus tracks a group order through its lifecycle. Active is the
// sole initial state; Shipped and Cancelled are terminal.
type ProductStatus string

const (
	ProductStatusActive    ProductStatus = "active"
	ProductStatusFulfilled ProductStatus = "fulfilled"
	ProductStatusShipped   ProductStatus = "shipped"
	ProductStatusCancelled ProductStatus = "cancelled"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusFulfilled,
	ProductStatusShipped,
	ProductStatusCancelled,
}

// statusTransitions is the allowed transition table. Suppliers decide when a
// funded order is Fulfilled; the engine never flips status on its own.
var statusTransitions = map[ProductStatus][]ProductStatus{
	ProductStatusActive:    {ProductStatusFulfilled, ProductStatusCancelled},
	ProductStatusFulfilled: {ProductStatusShipped, ProductStatusCancelled},
	ProductStatusShipped:   {},
	ProductStatusCancelled: {},
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from this status.
func (s ProductStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the transition table permits moving to next.
func (s ProductStatus) CanTransitionTo(next ProductStatus) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
