package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/accounts"
	"github.com/keiri-dev/keiri/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("山田商店", "U123")
	cfg.Store = StoreConfig{Driver: "sqlite", Path: "data/keiri.db"}
	cfg.Accounts.Cash = "小口現金"
	cfg.History.Enabled = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "山田商店", got.Business.Name)
	assert.Equal(t, "U123", got.Business.Owner)
	assert.Equal(t, 5, got.Business.BusinessType)
	assert.Equal(t, "sqlite", got.Store.Driver)
	assert.Equal(t, "小口現金", got.Accounts.Cash)
	assert.Equal(t, cfg.Accounts.ExpenseSummary, got.Accounts.ExpenseSummary)
	assert.Equal(t, 10, got.Report.JournalLimit)
	assert.Equal(t, cfg.History, got.History)
}

func TestLoadFillsMissingAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  owner: U1\naccounts:\n  revenue: 売上\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "売上", cfg.Accounts.Revenue)
	assert.Equal(t, accounts.Cash, cfg.Accounts.Cash)
	assert.Len(t, cfg.Accounts.ProfitLossExpenses, 15)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Shop", "U1")

	assert.Equal(t, DefaultDriver, cfg.Store.Driver)
	assert.Equal(t, DefaultTimezone, cfg.Report.Timezone)
	assert.Equal(t, DefaultListen, cfg.Server.Listen)
	assert.True(t, cfg.Business.DoubleEntry)

	o, err := cfg.Business.Profile()
	require.NoError(t, err)
	assert.Equal(t, "U1", o.Ref)
	assert.Equal(t, model.TaxMethodPrinciple, o.TaxMethod)
}

func TestProfileRejectsUnknownMethod(t *testing.T) {
	b := BusinessConfig{Owner: "U1", TaxMethod: "flat"}
	_, err := b.Profile()
	assert.ErrorContains(t, err, "unknown tax method")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestLocation(t *testing.T) {
	loc, err := ReportConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	_, err = ReportConfig{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KEIRI_STORE_DRIVER=postgres\nKEIRI_TIMEZONE=UTC\nKEIRI_DATABASE_URL=postgres://file/db\n"), 0o644))
	t.Setenv("KEIRI_DATABASE_URL", "postgres://env/db")
	t.Setenv("KEIRI_LISTEN_ADDR", ":9090")

	cfg := Default("x", "U1")
	require.NoError(t, ApplyEnv(cfg, envFile, filepath.Join(t.TempDir(), "missing.env")))

	assert.Equal(t, "postgres", cfg.Store.Driver, "from .env")
	assert.Equal(t, "UTC", cfg.Report.Timezone)
	assert.Equal(t, "postgres://env/db", cfg.Store.DSN, "process env wins over .env")
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "data", cfg.Store.Path, "untouched")
}
