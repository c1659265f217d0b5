// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/ccgen/internal/model"
)

// GenerateParams are the query parameters sent to the generation API.
// Empty optional values are left out of the request.
type GenerateParams struct {
	BIN      string
	Format   string
	Month    string
	Year     string
	CVV      string
	Currency string
	Balance  string
	Limit    int
}

// Generator fetches freshly generated card records.
type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]model.Record, error)
}

// HistoryStore persists the last used BIN and a short most-recent-first list.
type HistoryStore interface {
	LastBIN(ctx context.Context) (string, error)
	RememberBIN(ctx context.Context, bin string) error
	RecentBINs(ctx context.Context, limit int) ([]string, error)
	ClearHistory(ctx context.Context) error
	Close() error
}

// NotificationKind selects how a notification is presented.
type NotificationKind string

// Notification kinds.
const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notifier shows short one-line status messages to the user.
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
