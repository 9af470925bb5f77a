package compositor

// GraphicsResetEvent is the notification event sent after a graphics reset.
const GraphicsResetEvent = "graphicsreset"

// graphicsResetText is shown to the user after a graphics reset.
const graphicsResetText = "Desktop effects were restarted due to a graphics reset"

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(event, text string)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(event, text string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(event, text string) { f(event, text) }

// logNotifier writes notifications to the package logger.
type logNotifier struct{}

func (logNotifier) Notify(event, text string) {
	slogger().Info(text, "event", event)
}
