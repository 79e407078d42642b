package accounts

import "github.com/keiri-dev/keiri/internal/model"

// Well-known account names the ledgers and statements key on.
const (
	Cash          = "現金"
	Sales         = "売上高"
	Purchases     = "仕入高"
	OwnerDrawings = "事業主貸"
)

// DefaultChart returns the chart of accounts for a sole proprietor.
func DefaultChart() []model.Account {
	rows := []struct {
		code, name string
		typ        model.AccountType
		category   string
		tax        model.TaxClass
	}{
		{"100", "現金", model.AccountTypeAsset, "流動資産", model.TaxClassOutOfScope},
		{"101", "普通預金", model.AccountTypeAsset, "流動資産", model.TaxClassOutOfScope},
		{"102", "当座預金", model.AccountTypeAsset, "流動資産", model.TaxClassOutOfScope},
		{"110", "売掛金", model.AccountTypeAsset, "流動資産", model.TaxClassOutOfScope},
		{"111", "受取手形", model.AccountTypeAsset, "流動資産", model.TaxClassOutOfScope},
		{"120", "前払金", model.AccountTypeAsset, "流動資産", model.TaxClassTaxed10},
		{"130", "貯蔵品", model.AccountTypeAsset, "流動資産", model.TaxClassTaxed10},
		{"200", "建物", model.AccountTypeAsset, "固定資産", model.TaxClassTaxed10},
		{"201", "車両運搬具", model.AccountTypeAsset, "固定資産", model.TaxClassTaxed10},
		{"202", "工具器具備品", model.AccountTypeAsset, "固定資産", model.TaxClassTaxed10},
		{"203", "ソフトウェア", model.AccountTypeAsset, "固定資産", model.TaxClassTaxed10},

		{"300", "買掛金", model.AccountTypeLiability, "流動負債", model.TaxClassOutOfScope},
		{"301", "未払金", model.AccountTypeLiability, "流動負債", model.TaxClassOutOfScope},
		{"302", "前受金", model.AccountTypeLiability, "流動負債", model.TaxClassOutOfScope},
		{"303", "預り金", model.AccountTypeLiability, "流動負債", model.TaxClassOutOfScope},
		{"310", "短期借入金", model.AccountTypeLiability, "流動負債", model.TaxClassOutOfScope},
		{"320", "長期借入金", model.AccountTypeLiability, "固定負債", model.TaxClassOutOfScope},

		{"400", "元入金", model.AccountTypeEquity, "資本", model.TaxClassOutOfScope},
		{"401", "事業主借", model.AccountTypeEquity, "資本", model.TaxClassOutOfScope},
		{"402", "事業主貸", model.AccountTypeEquity, "資本", model.TaxClassOutOfScope},

		{"500", "売上高", model.AccountTypeRevenue, "営業収益", model.TaxClassTaxed10},
		{"510", "雑収入", model.AccountTypeRevenue, "営業外収益", model.TaxClassTaxed10},
		{"511", "受取利息", model.AccountTypeRevenue, "営業外収益", model.TaxClassExempt},

		{"600", "仕入高", model.AccountTypeExpense, "売上原価", model.TaxClassTaxed10},
		{"610", "外注費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"620", "給料賃金", model.AccountTypeExpense, "販管費", model.TaxClassOutOfScope},
		{"630", "地代家賃", model.AccountTypeExpense, "販管費", model.TaxClassExempt},
		{"640", "水道光熱費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"650", "通信費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"660", "旅費交通費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"670", "接待交際費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"680", "消耗品費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"690", "減価償却費", model.AccountTypeExpense, "販管費", model.TaxClassOutOfScope},
		{"700", "租税公課", model.AccountTypeExpense, "販管費", model.TaxClassOutOfScope},
		{"710", "支払利息", model.AccountTypeExpense, "営業外費用", model.TaxClassExempt},
		{"720", "雑費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"730", "広告宣伝費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"740", "研修費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
		{"750", "新聞図書費", model.AccountTypeExpense, "販管費", model.TaxClassTaxed8},
		{"760", "支払手数料", model.AccountTypeExpense, "販管費", model.TaxClassTaxed10},
	}

	chart := make([]model.Account, 0, len(rows))
	for i, r := range rows {
		chart = append(chart, model.Account{
			Code:       r.code,
			Name:       r.name,
			Type:       r.typ,
			Category:   r.category,
			TaxDefault: r.tax,
			SortOrder:  i + 1,
			Active:     true,
		})
	}
	return chart
}

// ExpenseSummaryAccounts is the fixed list reported by the expense summary.
func ExpenseSummaryAccounts() []string {
	return []string{
		"旅費交通費", "接待交際費", "消耗品費", "広告宣伝費", "通信費",
		"地代家賃", "水道光熱費", "外注費", "雑費", "研修費",
		"新聞図書費", "支払手数料", "租税公課",
	}
}

// ProfitLossExpenseAccounts extends the summary list with depreciation and wages.
func ProfitLossExpenseAccounts() []string {
	return append(ExpenseSummaryAccounts(), "減価償却費", "給料賃金")
}

// BalanceSheetAssets lists the asset accounts shown on the balance sheet.
func BalanceSheetAssets() []string {
	return []string{
		"現金", "普通預金", "当座預金", "売掛金", "受取手形", "前払金",
		"貯蔵品", "建物", "車両運搬具", "工具器具備品", "ソフトウェア",
	}
}

// BalanceSheetLiabilities lists the liability accounts shown on the balance sheet.
func BalanceSheetLiabilities() []string {
	return []string{"買掛金", "未払金", "前受金", "預り金", "短期借入金", "長期借入金"}
}

// BalanceSheetCapital lists the capital accounts shown on the balance sheet.
func BalanceSheetCapital() []string {
	return []string{"元入金", "事業主借", OwnerDrawings}
}
