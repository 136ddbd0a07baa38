package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeOrderStatusChange NotificationType = "order_status_change"
	NotificationTypeOrderAssigned     NotificationType = "order_assigned"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderStatusChange,
	NotificationTypeOrderAssigned,
}

// IsValid reports whether the value matches the canonical notification enum.
func (t NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
