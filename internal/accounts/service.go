package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keiri-dev/keiri/internal/model"
)

// Catalog provides read-only lookup over the chart of accounts.
type Catalog struct {
	accounts []model.Account
	byName   map[string]model.Account
	byCode   map[string]model.Account
}

// NewCatalog creates a Catalog from a slice of accounts.
func NewCatalog(accounts []model.Account) *Catalog {
	byName := make(map[string]model.Account, len(accounts))
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
		byCode[a.Code] = a
	}
	return &Catalog{accounts: accounts, byName: byName, byCode: byCode}
}

// Default returns a Catalog over DefaultChart.
func Default() *Catalog {
	return NewCatalog(DefaultChart())
}

// chartPath is relative to the project root.
var chartPath = filepath.Join("accounts", "chart-of-accounts.csv")

// Load reads accounts/chart-of-accounts.csv from a project root.
func Load(root string) (*Catalog, error) {
	f, err := os.Open(filepath.Join(root, chartPath))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewCatalog(accts), nil
}

// All returns all accounts in chart order.
func (c *Catalog) All() []model.Account {
	return c.accounts
}

// Get returns an account by display name.
func (c *Catalog) Get(name string) (model.Account, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// ByCode returns an account by its code.
func (c *Catalog) ByCode(code string) (model.Account, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// Exists reports whether an active account with the name exists.
func (c *Catalog) Exists(name string) bool {
	a, ok := c.byName[name]
	return ok && a.Active
}

// TaxDefault returns the default tax classification of an account,
// or TaxClassTaxed10 when the account is unknown.
func (c *Catalog) TaxDefault(name string) model.TaxClass {
	if a, ok := c.byName[name]; ok && a.TaxDefault != "" {
		return a.TaxDefault
	}
	return model.TaxClassTaxed10
}

// ByType returns all accounts of the given type.
func (c *Catalog) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range c.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// ByCategory returns all accounts in a category such as 販管費.
func (c *Catalog) ByCategory(category string) []model.Account {
	var result []model.Account
	for _, a := range c.accounts {
		if a.Category == category {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart to accounts/chart-of-accounts.csv under root.
func (c *Catalog) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, chartPath))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, c.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
