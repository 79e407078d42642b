package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Tokyo without a system zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/keiri-dev/keiri/internal/accounts"
	"github.com/keiri-dev/keiri/internal/model"
)

// FileName is the config file created by `keiri init`.
const FileName = "keiri.yaml"

// Config represents the top-level keiri.yaml configuration.
type Config struct {
	Business BusinessConfig       `yaml:"business"`
	Accounts accounts.Designation `yaml:"accounts"`
	Store    StoreConfig          `yaml:"store"`
	Report   ReportConfig         `yaml:"report"`
	Server   ServerConfig         `yaml:"server"`
	History  HistoryConfig        `yaml:"history"`
}

// BusinessConfig describes the default bookkeeping subject.
type BusinessConfig struct {
	Name          string `yaml:"name"`
	Owner         string `yaml:"owner"`
	BusinessType  int    `yaml:"business_type"` // simplified-tax category, 1-6
	TaxMethod     string `yaml:"tax_method"`    // principle or simplified
	BlueReturn    bool   `yaml:"blue_return"`
	EFiling       bool   `yaml:"e_filing"`
	DoubleEntry   bool   `yaml:"double_entry"`
	FiscalYearEnd string `yaml:"fiscal_year_end"` // "MM-DD"
}

// Profile converts the business section into an owner record.
func (b BusinessConfig) Profile() (model.Owner, error) {
	method, ok := model.ParseTaxMethod(b.TaxMethod)
	if !ok {
		return model.Owner{}, fmt.Errorf("unknown tax method %q", b.TaxMethod)
	}
	return model.Owner{
		Ref:           b.Owner,
		Name:          b.Name,
		BusinessType:  b.BusinessType,
		TaxMethod:     method,
		BlueReturn:    b.BlueReturn,
		EFiling:       b.EFiling,
		DoubleEntry:   b.DoubleEntry,
		FiscalYearEnd: b.FiscalYearEnd,
	}, nil
}

// StoreConfig selects the transaction store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // csv, sqlite, postgres or memory
	Path   string `yaml:"path,omitempty"`
	DSN    string `yaml:"dsn,omitempty"`
}

// ReportConfig controls report rendering.
type ReportConfig struct {
	JournalLimit int    `yaml:"journal_limit"`
	Timezone     string `yaml:"timezone"`
}

// Location loads the configured timezone. Empty means Asia/Tokyo.
func (r ReportConfig) Location() (*time.Location, error) {
	name := r.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

// ServerConfig controls `keiri serve`.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// HistoryConfig controls the git audit trail of the project directory.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

const (
	DefaultTimezone = "Asia/Tokyo"
	DefaultListen   = ":8080"
	DefaultDriver   = "csv"
)

// Load reads a keiri.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Accounts = cfg.Accounts.WithDefaults()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName, owner string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:          businessName,
			Owner:         owner,
			BusinessType:  5,
			TaxMethod:     string(model.TaxMethodPrinciple),
			BlueReturn:    true,
			EFiling:       true,
			DoubleEntry:   true,
			FiscalYearEnd: "12-31",
		},
		Accounts: accounts.DefaultDesignation(),
		Store: StoreConfig{
			Driver: DefaultDriver,
			Path:   "data",
		},
		Report: ReportConfig{
			JournalLimit: 10,
			Timezone:     DefaultTimezone,
		},
		Server: ServerConfig{
			Listen: DefaultListen,
		},
		History: HistoryConfig{
			AuthorName:  "keiri",
			AuthorEmail: "keiri@localhost",
		},
	}
}

// EnvPrefix is prepended to the environment overrides, e.g.
// KEIRI_STORE_DRIVER.
const EnvPrefix = "KEIRI"

// ApplyEnv overlays environment settings on cfg. Values come from the
// process environment first, then from the given .env files. Missing .env
// files are ignored.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		for k, val := range vals {
			key := strings.TrimPrefix(strings.ToLower(k), strings.ToLower(EnvPrefix)+"_")
			v.SetDefault(key, val)
		}
	}

	for key, dst := range map[string]*string{
		"store_driver": &cfg.Store.Driver,
		"store_path":   &cfg.Store.Path,
		"database_url": &cfg.Store.DSN,
		"timezone":     &cfg.Report.Timezone,
		"listen_addr":  &cfg.Server.Listen,
		"owner":        &cfg.Business.Owner,
	} {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	return nil
}
