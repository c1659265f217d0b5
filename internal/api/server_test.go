package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ccgen/internal/certs"
	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, gen *engine.MockGenerator) (*gin.Engine, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if gen == nil {
		gen = &engine.MockGenerator{}
	}
	return NewRouter(engine.New(gen, &engine.MockHistory{}), logger), &logs
}

func do(r http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, logs := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Contains(t, logs.String(), `"path":"/api/health"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		bin     string
		network model.Network
		hint    string
		cvc     int
	}{
		{name: "amex", bin: "371449", network: model.NetworkAmex, cvc: 4, hint: "Leave 4-digit CVC (American Express)"},
		{name: "visa", bin: "4532", network: model.NetworkVisa, cvc: 3, hint: "Leave 3-digit CVC (Visa)"},
		{name: "unknown", bin: "9999", network: model.NetworkUnknown, cvc: 3, hint: "Leave 3-digit CVC (Unknown)"},
	}

	r, _ := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/api/classify/"+tt.bin, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var got classifyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.bin, got.BIN)
			assert.Equal(t, tt.network, got.Network)
			assert.Equal(t, tt.cvc, got.CVCLength)
			assert.Equal(t, tt.hint, got.Hint)
		})
	}
}

func TestFormat(t *testing.T) {
	body := `{"cards":[{"number":"4532011234567890","expiry":"07/29","cvv":"123"}]}`

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "default pipe", target: "/api/format", want: "4532011234567890|07/29|123"},
		{name: "pipe with money", target: "/api/format?currency=USD&balance=10-20", want: "4532011234567890|07/29|123|USD|10-20"},
		{name: "money needs both", target: "/api/format?currency=USD", want: "4532011234567890|07/29|123"},
		{name: "sql", target: "/api/format?format=sql", want: "INSERT INTO cards(number, month, year, cvv) VALUES ('4532011234567890','07','29','123');"},
		{name: "xml", target: "/api/format?format=XML", want: "<card><number>4532011234567890</number><month>07</month><year>29</year><cvv>123</cvv></card>"},
	}

	r, _ := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, tt.target, strings.NewReader(body))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestFormat_BadBody(t *testing.T) {
	r, logs := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/format", strings.NewReader("not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cards")
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestGenerate(t *testing.T) {
	gen := &engine.MockGenerator{}
	r, _ := newTestRouter(t, gen)

	body := `{"bin":"453201","quantity":3,"format":"json","cvc":"321","cvcEnabled":true}`
	w := do(r, http.MethodPost, "/api/generate", strings.NewReader(body))
	require.Equal(t, http.StatusOK, w.Code)

	var got generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "453201", got.BIN)
	assert.Equal(t, model.NetworkVisa, got.Network)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, "json", string(got.Format))
	require.Len(t, got.Cards, 3)
	assert.Equal(t, "321", got.Cards[0].CVV)
	assert.True(t, strings.HasPrefix(got.Output, "[\n  {"))
	assert.Equal(t, "321", gen.Calls()[0].CVV)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		genErr error
		name   string
		body   string
		want   string
		status int
	}{
		{name: "short BIN", body: `{"bin":"4532"}`, status: http.StatusBadRequest, want: engine.MsgInvalidBIN},
		{name: "quantity too large", body: `{"bin":"453201","quantity":51}`, status: http.StatusBadRequest, want: engine.MsgQuantityTooLarge},
		{name: "bad body", body: `[`, status: http.StatusBadRequest, want: "Request body must be a JSON object."},
		{
			name:   "upstream busy",
			body:   `{"bin":"453201"}`,
			genErr: common.NewUserError("Server is busy. Please try again later.", common.ErrServerBusy),
			status: http.StatusBadGateway,
			want:   "Server is busy. Please try again later.",
		},
		{
			name:   "timeout",
			body:   `{"bin":"453201"}`,
			genErr: common.NewUserError("Request timeout. Please try again.", common.ErrRequestTimeout),
			status: http.StatusGatewayTimeout,
			want:   "Request timeout. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, &engine.MockGenerator{Err: tt.genErr})

			w := do(r, http.MethodPost, "/api/generate", strings.NewReader(tt.body))
			assert.Equal(t, tt.status, w.Code)

			var got errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got.Error)
		})
	}
}

func TestGenerate_NoCards(t *testing.T) {
	r, _ := newTestRouter(t, &engine.MockGenerator{Records: []model.Record{}})

	w := do(r, http.MethodPost, "/api/generate", strings.NewReader(`{"bin":"453201"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), engine.MsgNoCards)
}

func TestRecovery(t *testing.T) {
	r, logs := newTestRouter(t, nil)
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	srv := NewServer("127.0.0.1:0", r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunTLSStopsOnCancel(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	tlsConfig, err := certs.NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	srv := NewServer("127.0.0.1:0", r).WithTLS(tlsConfig)
	assert.Same(t, tlsConfig, srv.httpServer.TLSConfig)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
