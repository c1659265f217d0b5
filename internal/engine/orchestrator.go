// Package engine drives card generation: it validates form input, calls the
// generation API, stamps CVCs and renders the result.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/ccgen/internal/bin"
	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/model"
	"github.com/Veraticus/ccgen/internal/service"
)

// Quantity bounds for a single request.
const (
	DefaultQuantity = 10
	MaxQuantity     = 50
)

// HistoryLimit caps how many recent BINs History returns.
const HistoryLimit = 20

// User-facing messages.
const (
	MsgInvalidBIN       = "Please enter a valid BIN (at least 6 digits)."
	MsgInvalidQuantity  = "Error: Please select a valid quantity."
	MsgQuantityTooLarge = "Error: Quantity cannot exceed 50."
	MsgNoCards          = "No cards were generated. Please check the BIN or API status."
	MsgNothingToCopy    = "No data to copy, please generate first"
	MsgCopied           = "Data copied successfully"
	MsgCopyFailed       = "Copy failed, please try again"
)

// Request mirrors the generator form.
type Request struct {
	BIN          string
	Month        string
	Year         string
	CVC          string
	Currency     string
	Balance      string
	Format       formatter.Tag
	Quantity     int
	Batches      int
	DateEnabled  bool
	// CVCEnabled pins CVC on every record when CVC is non-empty. Otherwise
	// each record gets a fresh random CVC of the network's length.
	CVCEnabled   bool
	MoneyEnabled bool
}

// Result is the rendered output of a generation run.
type Result struct {
	Output         string
	BIN            string
	Format         formatter.Tag
	Records        []model.Record
	Classification bin.Classification
	Duration       time.Duration
}

// ClassifyResult describes a BIN as typed so far.
type ClassifyResult struct {
	BIN            string             `json:"bin"`
	Hint           string             `json:"hint"`
	Mask           string             `json:"mask"`
	Classification bin.Classification `json:"classification"`
}

// ProgressFunc is called after each completed batch.
type ProgressFunc func(done, total int)

// Orchestrator wires the generator, history and presentation ports together.
type Orchestrator struct {
	generator service.Generator
	history   service.HistoryStore
	clipboard service.Clipboard
	notifier  service.Notifier
	limiter   *rate.Limiter
	progress  ProgressFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(c service.Clipboard) Option {
	return func(o *Orchestrator) {
		o.clipboard = c
	}
}

// WithNotifier sets where status messages are shown.
func WithNotifier(n service.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithRateLimit spaces batch requests at perSecond. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(o *Orchestrator) {
		if perSecond <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithProgress registers a batch progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// New creates an orchestrator. history may be nil, in which case nothing is
// remembered.
func New(generator service.Generator, history service.HistoryStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		generator: generator,
		history:   history,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate validates req, fetches cards and renders them.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	digits := bin.Digits(req.BIN)
	if len(digits) < bin.MinLength {
		return nil, common.NewUserError(MsgInvalidBIN, common.ErrInvalidBIN)
	}

	o.remember(ctx, digits)

	quantity, err := resolveQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	classification := bin.Classify(digits)
	pinned := ""
	if req.CVCEnabled {
		pinned = strings.TrimSpace(req.CVC)
	}

	params := service.GenerateParams{
		BIN:    digits,
		Limit:  quantity,
		Format: string(formatter.ParseTag(string(req.Format))),
		CVV:    pinned,
	}
	if params.CVV == "" {
		params.CVV = bin.GenerateCVC(classification.CVCLength)
	}
	if req.DateEnabled {
		params.Month = strings.TrimSpace(req.Month)
		params.Year = strings.TrimSpace(req.Year)
	}

	var money *model.Money
	if req.MoneyEnabled {
		m := model.Money{Currency: strings.TrimSpace(req.Currency), Balance: strings.TrimSpace(req.Balance)}
		if m.Present() {
			money = &m
			params.Currency = m.Currency
			params.Balance = m.Balance
		}
	}

	slog.Info("Generating cards",
		"bin", digits,
		"network", classification.Network,
		"quantity", quantity,
		"batches", batchCount(req.Batches))

	records, err := o.fetchBatches(ctx, params, batchCount(req.Batches))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, common.NewUserError(MsgNoCards, common.ErrNoCards)
	}

	for i := range records {
		if pinned != "" {
			records[i].CVV = pinned
		} else {
			records[i].CVV = bin.GenerateCVC(classification.CVCLength)
		}
	}

	tag := formatter.ParseTag(string(req.Format))
	result := &Result{
		Output:         formatter.Format(records, string(tag), money),
		BIN:            digits,
		Format:         tag,
		Records:        records,
		Classification: classification,
		Duration:       time.Since(start),
	}

	slog.Info("Generated cards", "count", len(records), "format", tag, "duration", result.Duration)
	return result, nil
}

func (o *Orchestrator) fetchBatches(ctx context.Context, params service.GenerateParams, batches int) ([]model.Record, error) {
	var records []model.Record
	for i := 0; i < batches; i++ {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, common.NewUserError("Request canceled.", err)
		}

		batch, err := o.generator.Generate(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("batch %d of %d: %w", i+1, batches, err)
		}
		records = append(records, batch...)

		if o.progress != nil {
			o.progress(i+1, batches)
		}
	}
	return records, nil
}

func resolveQuantity(quantity int) (int, error) {
	switch {
	case quantity == 0:
		return DefaultQuantity, nil
	case quantity < 1:
		return 0, common.NewUserError(MsgInvalidQuantity, common.ErrInvalidQuantity)
	case quantity > MaxQuantity:
		return 0, common.NewUserError(MsgQuantityTooLarge, common.ErrInvalidQuantity)
	}
	return quantity, nil
}

func batchCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Classify reports the network, CVC length and placeholder hint for input.
func (o *Orchestrator) Classify(input string) ClassifyResult {
	digits := bin.Digits(input)
	return ClassifyResult{
		BIN:            digits,
		Classification: bin.Classify(digits),
		Hint:           bin.Hint(digits),
		Mask:           bin.Mask(digits),
	}
}

// Copy puts text on the clipboard and reports the outcome through the notifier.
func (o *Orchestrator) Copy(_ context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		o.notify(service.NotifyError, MsgNothingToCopy)
		return common.NewUserError(MsgNothingToCopy, common.ErrNothingToCopy)
	}
	if o.clipboard == nil {
		o.notify(service.NotifyError, MsgCopyFailed)
		return common.NewUserError(MsgCopyFailed, fmt.Errorf("%w: no clipboard", common.ErrMissingConfig))
	}

	if err := o.clipboard.WriteAll(text); err != nil {
		slog.Warn("Clipboard write failed", "error", err)
		o.notify(service.NotifyError, MsgCopyFailed)
		return common.NewUserError(MsgCopyFailed, err)
	}

	o.notify(service.NotifySuccess, MsgCopied)
	return nil
}

// RememberBIN saves input as the last used BIN once it has enough digits.
// It reports whether anything was saved.
func (o *Orchestrator) RememberBIN(ctx context.Context, input string) bool {
	digits := bin.Digits(input)
	if len(digits) < bin.MinLength {
		return false
	}
	return o.remember(ctx, digits)
}

func (o *Orchestrator) remember(ctx context.Context, digits string) bool {
	if o.history == nil {
		return false
	}
	if err := o.history.RememberBIN(ctx, digits); err != nil {
		slog.Warn("Failed to save BIN history", "bin", digits, "error", err)
		return false
	}
	return true
}

// LastBIN returns the most recently used BIN, or "" when none is stored.
func (o *Orchestrator) LastBIN(ctx context.Context) string {
	if o.history == nil {
		return ""
	}
	last, err := o.history.LastBIN(ctx)
	if err != nil {
		slog.Warn("Failed to load last BIN", "error", err)
		return ""
	}
	return last
}

// History returns recently used BINs, most recent first.
func (o *Orchestrator) History(ctx context.Context) ([]string, error) {
	if o.history == nil {
		return nil, nil
	}

	recent, err := o.history.RecentBINs(ctx, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load BIN history: %w", err)
	}

	out := make([]string, 0, len(recent))
	for _, b := range recent {
		if len(bin.Digits(b)) >= bin.MinLength {
			out = append(out, b)
		}
	}
	return out, nil
}

// ClearHistory forgets every stored BIN.
func (o *Orchestrator) ClearHistory(ctx context.Context) error {
	if o.history == nil {
		return nil
	}
	if err := o.history.ClearHistory(ctx); err != nil {
		return fmt.Errorf("failed to clear BIN history: %w", err)
	}
	return nil
}

func (o *Orchestrator) notify(kind service.NotificationKind, message string) {
	if o.notifier != nil {
		o.notifier.Notify(kind, message)
	}
}
