package ports

// Notifier is the user-facing toast/log surface. Calls are fire-and-forget.
type Notifier interface {
	NotifyError(message string)
	NotifySuccess(message string)
}
