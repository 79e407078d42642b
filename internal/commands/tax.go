package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/report"
	"github.com/keiri-dev/keiri/internal/tax"
)

func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, s)
	}
	return d, nil
}

func newTaxCommand() *cobra.Command {
	taxCmd := &cobra.Command{
		Use:   "tax",
		Short: "Tax calculators",
	}
	taxCmd.AddCommand(
		newTaxIncomeCommand(),
		newTaxConsumptionCommand(),
		newTaxDepreciationCommand(),
		newTaxDeductionsCommand(),
		newTaxEstimateCommand(),
	)
	return taxCmd
}

func newTaxIncomeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "income <taxable-income>",
		Short: "Income tax with the reconstruction surtax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := parseAmount("taxable income", args[0])
			if err != nil {
				return err
			}
			res := tax.Calculator{}.IncomeTax(income)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "課税所得: %s\n", report.Yen(res.TaxableIncome))
			fmt.Fprintf(out, "税率: %s%%\n", res.TaxRate.Mul(decimal.NewFromInt(100)).String())
			fmt.Fprintf(out, "所得税: %s\n", report.Yen(res.IncomeTax))
			fmt.Fprintf(out, "復興特別所得税: %s\n", report.Yen(res.ReconstructionTax))
			fmt.Fprintf(out, "合計: %s\n", report.Yen(res.TotalTax))
			return nil
		},
	}
}

func newTaxConsumptionCommand() *cobra.Command {
	var salesTax, purchaseTax, method string
	var businessType int

	cmd := &cobra.Command{
		Use:   "consumption",
		Short: "Consumption tax payable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sales, err := parseAmount("sales tax", salesTax)
			if err != nil {
				return err
			}
			purchase, err := parseAmount("purchase tax", purchaseTax)
			if err != nil {
				return err
			}
			m, ok := model.ParseTaxMethod(method)
			if !ok {
				return fmt.Errorf("unknown tax method %q", method)
			}

			res := tax.Calculator{}.ConsumptionTax(sales, purchase, m, businessType)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "方式: %s\n", res.Method)
			fmt.Fprintf(out, "売上に係る消費税: %s\n", report.Yen(res.SalesTax))
			fmt.Fprintf(out, "仕入に係る消費税: %s\n", report.Yen(res.PurchaseTax))
			label := "納付税額"
			if res.IsRefund {
				label = "還付税額"
			}
			fmt.Fprintf(out, "%s: %s\n", label, report.Yen(res.PayableTax.Abs()))
			return nil
		},
	}

	cmd.Flags().StringVar(&salesTax, "sales-tax", "", "tax collected on sales")
	cmd.Flags().StringVar(&purchaseTax, "purchase-tax", "", "tax paid on purchases")
	cmd.Flags().StringVar(&method, "method", string(model.TaxMethodPrinciple), "principle or simplified")
	cmd.Flags().IntVar(&businessType, "business-type", tax.DefaultBusinessType, "simplified-tax category 1-6")

	return cmd
}

func newTaxDepreciationCommand() *cobra.Command {
	var cost, method, salvage string
	var life, months int

	cmd := &cobra.Command{
		Use:   "depreciation",
		Short: "Depreciation charge for a fixed asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseAmount("cost", cost)
			if err != nil {
				return err
			}
			rate := tax.DefaultSalvageRate
			if salvage != "" {
				if rate, err = parseAmount("salvage rate", salvage); err != nil {
					return err
				}
			}

			res := tax.Calculator{}.Depreciation(c, life, tax.ParseDepreciationMethod(method), months, rate)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "取得価額: %s\n", report.Yen(res.AcquisitionCost))
			fmt.Fprintf(out, "耐用年数: %d年 (%s)\n", res.UsefulLife, res.Method)
			fmt.Fprintf(out, "年間償却額: %s\n", report.Yen(res.AnnualDepreciation))
			fmt.Fprintf(out, "当期償却額: %s (%dヶ月)\n", report.Yen(res.Depreciation), res.MonthsUsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&cost, "cost", "", "acquisition cost")
	cmd.Flags().IntVar(&life, "life", 0, "useful life in years")
	cmd.Flags().StringVar(&method, "method", string(tax.StraightLine), "straight-line or declining-balance")
	cmd.Flags().IntVar(&months, "months", 12, "months in use this year")
	cmd.Flags().StringVar(&salvage, "salvage-rate", "", "residual ratio for straight-line (default 0.10)")
	_ = cmd.MarkFlagRequired("cost")
	_ = cmd.MarkFlagRequired("life")

	return cmd
}

func newTaxDeductionsCommand() *cobra.Command {
	var income, social, mutual, life, medical string
	var eFiling, doubleEntry bool

	cmd := &cobra.Command{
		Use:   "deductions",
		Short: "Income deductions breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tax.DeductionInputs{HasEFiling: eFiling, HasDoubleEntry: doubleEntry}
			for _, f := range []struct {
				name string
				src  string
				dst  *decimal.Decimal
			}{
				{"income", income, &in.TotalIncome},
				{"social insurance", social, &in.SocialInsurance},
				{"mutual aid", mutual, &in.MutualAid},
				{"life insurance", life, &in.LifeInsurance},
				{"medical expenses", medical, &in.MedicalExpenses},
			} {
				v, err := parseAmount(f.name, f.src)
				if err != nil {
					return err
				}
				*f.dst = v
			}

			d := tax.Calculator{}.AllDeductions(in)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "基礎控除: %s\n", report.Yen(d.Basic))
			fmt.Fprintf(out, "青色申告特別控除: %s\n", report.Yen(d.BlueReturn))
			fmt.Fprintf(out, "社会保険料控除: %s\n", report.Yen(d.SocialInsurance))
			fmt.Fprintf(out, "小規模企業共済等掛金控除: %s\n", report.Yen(d.MutualAid))
			fmt.Fprintf(out, "生命保険料控除: %s\n", report.Yen(d.LifeInsurance))
			fmt.Fprintf(out, "医療費控除: %s\n", report.Yen(d.Medical))
			fmt.Fprintf(out, "合計: %s\n", report.Yen(d.Total))
			return nil
		},
	}

	cmd.Flags().StringVar(&income, "income", "", "total income")
	cmd.Flags().StringVar(&social, "social-insurance", "", "social insurance premiums")
	cmd.Flags().StringVar(&mutual, "mutual-aid", "", "small business mutual aid contributions")
	cmd.Flags().StringVar(&life, "life-insurance", "", "life insurance deduction claimed")
	cmd.Flags().StringVar(&medical, "medical", "", "medical expenses paid")
	cmd.Flags().BoolVar(&eFiling, "e-filing", true, "files electronically")
	cmd.Flags().BoolVar(&doubleEntry, "double-entry", true, "keeps double-entry books")
	_ = cmd.MarkFlagRequired("income")

	return cmd
}

func newTaxEstimateCommand() *cobra.Command {
	var sales, expenses string
	var eFiling, doubleEntry bool

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Rough annual tax burden from sales and expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseAmount("sales", sales)
			if err != nil {
				return err
			}
			e, err := parseAmount("expenses", expenses)
			if err != nil {
				return err
			}

			est := tax.Calculator{}.EstimateAnnualTax(s, e, eFiling, doubleEntry)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "事業所得: %s\n", report.Yen(est.BusinessIncome))
			fmt.Fprintf(out, "所得控除: %s\n", report.Yen(est.TotalDeductions))
			fmt.Fprintf(out, "課税所得: %s\n", report.Yen(est.TaxableIncome))
			fmt.Fprintf(out, "所得税: %s\n", report.Yen(est.IncomeTax))
			fmt.Fprintf(out, "住民税: %s\n", report.Yen(est.ResidentTax))
			fmt.Fprintf(out, "事業税: %s\n", report.Yen(est.BusinessTax))
			fmt.Fprintf(out, "合計: %s\n", report.Yen(est.GrandTotal))
			return nil
		},
	}

	cmd.Flags().StringVar(&sales, "sales", "", "annual sales")
	cmd.Flags().StringVar(&expenses, "expenses", "", "annual expenses including cost of sales")
	cmd.Flags().BoolVar(&eFiling, "e-filing", true, "files electronically")
	cmd.Flags().BoolVar(&doubleEntry, "double-entry", true, "keeps double-entry books")
	_ = cmd.MarkFlagRequired("sales")

	return cmd
}
