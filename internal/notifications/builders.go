package notifications

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bulkbuddy/bulkbuddy-backend/pkg/db/models"
	"github.com/bulkbuddy/bulkbuddy-backend/pkg/enums"
)

// Builders for the notification payloads written by lifecycle operations.
// Each notification links back to the product it concerns.

func productLink(productID uuid.UUID) *string {
	link := fmt.Sprintf("/products/%s", productID)
	return &link
}

// ContributionReceived notifies a supplier that a vendor joined their order.
func ContributionReceived(supplierID, productID uuid.UUID, productName, vendorName string, quantity int) models.Notification {
	return models.Notification{
		UserID:  supplierID,
		Type:    enums.NotificationTypeContributionReceived,
		Title:   "New contribution",
		Message: fmt.Sprintf("%s contributed %d units to %q.", vendorName, quantity, productName),
		Link:    productLink(productID),
	}
}

// GoalReached notifies a supplier that contributions met the bulk minimum.
func GoalReached(supplierID, productID uuid.UUID, productName string) models.Notification {
	return models.Notification{
		UserID:  supplierID,
		Type:    enums.NotificationTypeGoalReached,
		Title:   "Goal reached",
		Message: fmt.Sprintf("%q reached its minimum bulk quantity and can be marked fulfilled.", productName),
		Link:    productLink(productID),
	}
}

// StatusChanged notifies a contributor that the order moved to a new status.
func StatusChanged(vendorID, productID uuid.UUID, productName string, status enums.ProductStatus) models.Notification {
	return models.Notification{
		UserID:  vendorID,
		Type:    enums.NotificationTypeStatusChanged,
		Title:   "Order status updated",
		Message: fmt.Sprintf("%q is now %s.", productName, status),
		Link:    productLink(productID),
	}
}

// ReviewReceived notifies a supplier that a vendor reviewed their order.
func ReviewReceived(supplierID, productID uuid.UUID, productName, vendorName string, rating int) models.Notification {
	return models.Notification{
		UserID:  supplierID,
		Type:    enums.NotificationTypeReviewReceived,
		Title:   "New review",
		Message: fmt.Sprintf("%s rated %q %d out of 5.", vendorName, productName, rating),
		Link:    productLink(productID),
	}
}
