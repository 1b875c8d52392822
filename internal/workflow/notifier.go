package workflow

// Notification is a non-blocking, user-visible message. The controller
// emits one for every error path and for the confirmed and cancelled
// outcomes; it never blocks on delivery.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notifier is the injected side-channel for user-visible messages. A nil
// Notifier is valid and discards everything.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}
