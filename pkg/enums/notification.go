package enums

// NotificationType labels the synthesized feed entries and room events.
type NotificationType string

const (
	NotificationTypeOrder    NotificationType = "order"
	NotificationTypePayment  NotificationType = "payment"
	NotificationTypeActivity NotificationType = "activity"
	NotificationTypeInfo     NotificationType = "info"
)
