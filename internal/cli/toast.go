package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/Veraticus/ccgen/internal/service"
)

// ToastNotifier prints one-line status messages styled by kind.
type ToastNotifier struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewToastNotifier creates a notifier writing to w, or stderr when w is nil.
func NewToastNotifier(w io.Writer) *ToastNotifier {
	if w == nil {
		w = os.Stderr
	}
	return &ToastNotifier{writer: w}
}

// Notify implements service.Notifier.
func (n *ToastNotifier) Notify(kind service.NotificationKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := fmt.Fprintln(n.writer, RenderToast(kind, message)); err != nil {
		slog.Warn("Failed to write notification", "error", err)
	}
}

// RenderToast styles a message for its notification kind.
func RenderToast(kind service.NotificationKind, message string) string {
	switch kind {
	case service.NotifySuccess:
		return FormatSuccess(message)
	case service.NotifyError:
		return FormatError(message)
	default:
		return FormatInfo(message)
	}
}
