// Package notification sends desktop notifications through beeep.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/rtiagent/rtichat/internal/logger"
)

// AppName is the title of every notification.
const AppName = "RTI Assistant"

// maxPreview bounds the reply text shown in a notification body.
const maxPreview = 120

// notifyFunc has the signature of beeep.Notify.
type notifyFunc func(title, message string, icon any) error

var notify notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Tests only.
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores beeep.Notify.
func ResetNotifier() {
	notify = beeep.Notify
}

// Send shows a desktop notification. Errors are logged and returned.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)

	err := notify(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// ReplyReady announces an assistant reply for a session.
func ReplyReady(sessionTitle, reply string) error {
	body := preview(reply)
	if sessionTitle != "" {
		body = sessionTitle + ": " + body
	}
	return Send(AppName, body)
}

// DraftReady announces that a reply carries an RTI application draft.
func DraftReady(sessionTitle string) error {
	msg := "Your RTI application draft is ready"
	if sessionTitle != "" {
		msg += " (" + sessionTitle + ")"
	}
	return Send(AppName, msg)
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= maxPreview {
		return s
	}
	return string(r[:maxPreview]) + "..."
}
