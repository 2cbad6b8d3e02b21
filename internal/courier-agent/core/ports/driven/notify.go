package driven

// GpsAlertKind selects the user-facing guidance for a halted reporter.
type GpsAlertKind string

const (
	GpsAlertServiceDisabled  GpsAlertKind = "SERVICE_DISABLED"
	GpsAlertPermissionDenied GpsAlertKind = "PERMISSION_DENIED"
)

// INotifier is the outward surface of the coordinator: user notices plus
// the navigation/refresh handoff signals. Implementations must not block.
type INotifier interface {
	GpsAlert(kind GpsAlertKind)
	Notice(text string)
	NavigateToDelivery(orderID string)
	RefreshOrderPool()
}
