package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/ccgen/internal/model"
	"github.com/Veraticus/ccgen/internal/service"
)

// MockGenerator is a test implementation of service.Generator. It returns
// Limit deterministic records per call unless Records or Err is set.
type MockGenerator struct {
	Err     error
	Records []model.Record
	calls   []service.GenerateParams
	mu      sync.Mutex
}

// Generate records the call and returns canned records.
func (m *MockGenerator) Generate(_ context.Context, params service.GenerateParams) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, params)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Records != nil {
		out := make([]model.Record, len(m.Records))
		copy(out, m.Records)
		return out, nil
	}

	out := make([]model.Record, 0, params.Limit)
	for i := 0; i < params.Limit; i++ {
		out = append(out, model.Record{
			Number: fmt.Sprintf("%s%010d", params.BIN, i),
			CVV:    params.CVV,
			Month:  "07",
			Year:   "2029",
		})
	}
	return out, nil
}

// Calls returns the parameters of every Generate call so far.
func (m *MockGenerator) Calls() []service.GenerateParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.GenerateParams, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockHistory is an in-memory service.HistoryStore.
type MockHistory struct {
	Err    error
	last   string
	recent []string
	mu     sync.Mutex
}

// LastBIN returns the last remembered BIN.
func (m *MockHistory) LastBIN(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.Err
}

// RememberBIN moves bin to the front of the recent list.
func (m *MockHistory) RememberBIN(_ context.Context, bin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	m.last = bin
	recent := []string{bin}
	for _, b := range m.recent {
		if b != bin {
			recent = append(recent, b)
		}
	}
	m.recent = recent
	return nil
}

// RecentBINs returns up to limit BINs, most recent first.
func (m *MockHistory) RecentBINs(_ context.Context, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.recent) {
		limit = len(m.recent)
	}
	out := make([]string, limit)
	copy(out, m.recent[:limit])
	return out, nil
}

// ClearHistory forgets everything.
func (m *MockHistory) ClearHistory(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = ""
	m.recent = nil
	return m.Err
}

// Close is a no-op.
func (m *MockHistory) Close() error {
	return nil
}

// Seed replaces the stored history without validation.
func (m *MockHistory) Seed(last string, recent ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = last
	m.recent = append([]string(nil), recent...)
}

// MockClipboard records clipboard writes.
type MockClipboard struct {
	Err  error
	Text string
}

// WriteAll stores text or returns Err.
func (m *MockClipboard) WriteAll(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}

// Notification is a message captured by MockNotifier.
type Notification struct {
	Kind    service.NotificationKind
	Message string
}

// MockNotifier captures notifications.
type MockNotifier struct {
	notes []Notification
	mu    sync.Mutex
}

// Notify records the notification.
func (m *MockNotifier) Notify(kind service.NotificationKind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, Notification{Kind: kind, Message: message})
}

// Notifications returns every captured notification.
func (m *MockNotifier) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.notes))
	copy(out, m.notes)
	return out
}
