package accounts

// Designation names the accounts the ledgers and statements key on. It is
// configurable so a business can rename its cash or revenue account.
type Designation struct {
	Cash               string   `yaml:"cash"`
	Revenue            string   `yaml:"revenue"`
	CostOfSales        string   `yaml:"cost_of_sales"`
	OwnerDrawings      string   `yaml:"owner_drawings"`
	ExpenseSummary     []string `yaml:"expense_summary,omitempty"`
	ProfitLossExpenses []string `yaml:"profit_loss_expenses,omitempty"`
	Assets             []string `yaml:"assets,omitempty"`
	Liabilities        []string `yaml:"liabilities,omitempty"`
	Capital            []string `yaml:"capital,omitempty"`
}

// DefaultDesignation returns the standard sole-proprietor designation.
func DefaultDesignation() Designation {
	return Designation{
		Cash:               Cash,
		Revenue:            Sales,
		CostOfSales:        Purchases,
		OwnerDrawings:      OwnerDrawings,
		ExpenseSummary:     ExpenseSummaryAccounts(),
		ProfitLossExpenses: ProfitLossExpenseAccounts(),
		Assets:             BalanceSheetAssets(),
		Liabilities:        BalanceSheetLiabilities(),
		Capital:            BalanceSheetCapital(),
	}
}

// WithDefaults fills empty fields from DefaultDesignation.
func (d Designation) WithDefaults() Designation {
	def := DefaultDesignation()
	if d.Cash == "" {
		d.Cash = def.Cash
	}
	if d.Revenue == "" {
		d.Revenue = def.Revenue
	}
	if d.CostOfSales == "" {
		d.CostOfSales = def.CostOfSales
	}
	if d.OwnerDrawings == "" {
		d.OwnerDrawings = def.OwnerDrawings
	}
	if len(d.ExpenseSummary) == 0 {
		d.ExpenseSummary = def.ExpenseSummary
	}
	if len(d.ProfitLossExpenses) == 0 {
		d.ProfitLossExpenses = def.ProfitLossExpenses
	}
	if len(d.Assets) == 0 {
		d.Assets = def.Assets
	}
	if len(d.Liabilities) == 0 {
		d.Liabilities = def.Liabilities
	}
	if len(d.Capital) == 0 {
		d.Capital = def.Capital
	}
	return d
}
