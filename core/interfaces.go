package core

// Notifier is an interface to receive audit event notifications.
// The backend calls Notify after an audit record was accepted by the
// store; implementations must not block the request for long.
type Notifier interface {
	Notify(resource string, operation Operation, payload []byte)
}
