package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ccgen/internal/common"
	"github.com/Veraticus/ccgen/internal/config"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/testutil"
)

// setupViper points configuration at a temp database and the given API.
func setupViper(t *testing.T, apiURL string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dbPath := filepath.Join(t.TempDir(), "ccgen.db")
	viper.Set("database.path", dbPath)
	if apiURL != "" {
		viper.Set("api.base_url", apiURL)
	}
	return dbPath
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func cardServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cards":[
			{"number":"4532015112830366","expiry":"07/29","cvv":"000"},
			{"number":"4532015112830374","month":"8","year":"2030","cvv":"000"}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestGenerateCommand(t *testing.T) {
	srv, queries := cardServer(t)
	dbPath := setupViper(t, srv.URL)

	stdout, _, err := run(t, generateCmd(), "4532-01", "-n", "2", "-f", "csv", "--currency", "USD")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "4532015112830366,07/29,"))
	assert.True(t, strings.HasSuffix(lines[0], ",USD,500-1000"))
	assert.True(t, strings.HasPrefix(lines[1], "4532015112830374,08/30,"))

	require.Len(t, *queries, 1)
	assert.Contains(t, (*queries)[0], "bin=453201")
	assert.Contains(t, (*queries)[0], "limit=2")
	assert.Contains(t, (*queries)[0], "currency=USD")

	assert.Equal(t, "453201", testutil.LastBIN(t, testutil.SetupTestStoreAt(t, dbPath)))
}

func TestGenerateCommand_OutFile(t *testing.T) {
	srv, _ := cardServer(t)
	setupViper(t, srv.URL)
	out := filepath.Join(t.TempDir(), "cards.txt")

	stdout, stderr, err := run(t, generateCmd(), "--bin", "453201", "--out", out, "--batches", "2")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Wrote 4 cards")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 4)
}

func TestGenerateCommand_Errors(t *testing.T) {
	srv, queries := cardServer(t)

	tests := []struct {
		name string
		want string
		args []string
	}{
		{name: "short BIN", args: []string{"4532"}, want: engine.MsgInvalidBIN},
		{name: "quantity too large", args: []string{"453201", "-n", "51"}, want: engine.MsgQuantityTooLarge},
		{name: "negative quantity", args: []string{"453201", "-n", "-1"}, want: engine.MsgInvalidQuantity},
		{name: "conflicting BINs", args: []string{"453201", "--bin", "551234"}, want: "BIN given twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupViper(t, srv.URL)
			_, _, err := run(t, generateCmd(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, common.UserMessage(err), tt.want)
		})
	}
	assert.Empty(t, *queries)
}

func TestGenerateRequest(t *testing.T) {
	cfg := &config.Config{Defaults: config.FormDefaults{Quantity: 15, Format: formatter.SQL, Balance: "1-2"}}

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, req engine.Request)
	}{
		{
			name: "defaults from config",
			args: []string{"453201"},
			check: func(t *testing.T, req engine.Request) {
				assert.Equal(t, "453201", req.BIN)
				assert.Equal(t, 15, req.Quantity)
				assert.Equal(t, formatter.SQL, req.Format)
				assert.True(t, req.DateEnabled)
				assert.False(t, req.CVCEnabled)
				assert.False(t, req.MoneyEnabled)
				assert.Equal(t, 1, req.Batches)
			},
		},
		{
			name: "flags override",
			args: []string{"--bin", "371449", "-n", "3", "-f", "JSON", "--cvc", "1234", "--currency", "EUR", "--no-date", "--batches", "2"},
			check: func(t *testing.T, req engine.Request) {
				assert.Equal(t, "371449", req.BIN)
				assert.Equal(t, 3, req.Quantity)
				assert.Equal(t, formatter.JSON, req.Format)
				assert.True(t, req.CVCEnabled)
				assert.Equal(t, "1234", req.CVC)
				assert.True(t, req.MoneyEnabled)
				assert.Equal(t, "1-2", req.Balance)
				assert.False(t, req.DateEnabled)
				assert.Equal(t, 2, req.Batches)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := generateCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			req, err := generateRequest(cmd, cmd.Flags().Args(), cfg)
			require.NoError(t, err)
			tt.check(t, req)
		})
	}
}

func TestClassifyCommand(t *testing.T) {
	stdout, _, err := run(t, classifyCmd(), "371449", "6011")
	require.NoError(t, err)

	assert.Contains(t, stdout, "American Express")
	assert.Contains(t, stdout, "Leave 4-digit CVC (American Express)")
	assert.Contains(t, stdout, "371449xxxxxxxxxx")
	assert.Contains(t, stdout, "Discover")
}

func TestClassifyCommand_JSON(t *testing.T) {
	stdout, _, err := run(t, classifyCmd(), "--json", "5555")
	require.NoError(t, err)

	var got []engine.ClassifyResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "5555", got[0].BIN)
	assert.Equal(t, "Mastercard", got[0].Classification.Network.String())
	assert.Equal(t, 3, got[0].Classification.CVCLength)
}

func TestFormatCommand(t *testing.T) {
	doc := `{"cards":[{"number":"4532015112830366","expiry":"07/29","cvv":"123"}]}`

	t.Run("stdin", func(t *testing.T) {
		cmd := formatCmd()
		cmd.SetIn(strings.NewReader(doc))
		stdout, _, err := run(t, cmd, "-f", "sql")
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO cards(number, month, year, cvv) VALUES ('4532015112830366','07','29','123');\n", stdout)
	})

	t.Run("file with money", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cards.json")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

		stdout, _, err := run(t, formatCmd(), path, "--currency", "USD", "--balance", "5")
		require.NoError(t, err)
		assert.Equal(t, "4532015112830366|07/29|123|USD|5\n", stdout)
	})

	t.Run("bad document", func(t *testing.T) {
		cmd := formatCmd()
		cmd.SetIn(strings.NewReader("nope"))
		_, _, err := run(t, cmd)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, formatCmd(), filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}

func TestHistoryCommands(t *testing.T) {
	dbPath := setupViper(t, "")

	testutil.SetupTestStoreAt(t, dbPath, "453201", "551234")

	stdout, _, err := run(t, historyCmd())
	require.NoError(t, err)
	assert.Equal(t, "551234\n453201\n", stdout)

	stdout, _, err = run(t, historyCmd(), "last")
	require.NoError(t, err)
	assert.Equal(t, "551234\n", stdout)

	stdout, _, err = run(t, historyCmd(), "path")
	require.NoError(t, err)
	assert.Equal(t, dbPath+"\n", stdout)

	stdout, _, err = run(t, historyCmd(), "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "BIN history cleared")

	stdout, _, err = run(t, historyCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No BINs remembered yet")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, versionCmd())
	require.NoError(t, err)
	assert.Equal(t, "ccgen dev\n", stdout)
}
