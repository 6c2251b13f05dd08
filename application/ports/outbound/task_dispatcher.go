package outbound

// TaskDispatcher runs fire-and-forget work, normally on the shared ants pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
