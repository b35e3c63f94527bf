package core

// Operation represents a backend storage operation, one of Create, Read, Update, Delete, List
type Operation string

// all supported store operations
const (
	OperationCreate Operation = "create"
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationList   Operation = "list"
)

// the portal's user roles. Roles are free-text in the store, these are
// the values the handlers actually check.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// ListLimit is the maximum number of documents a collection listing returns.
const ListLimit = 100

// EventListLimit is the maximum number of audit events the event route returns.
const EventListLimit = 50
