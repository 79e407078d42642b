package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/tax"
)

func newOwnerCommand(g *globals) *cobra.Command {
	ownerCmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage bookkeeping owners",
	}
	ownerCmd.AddCommand(newOwnerAddCommand(g), newOwnerListCommand(g))
	return ownerCmd
}

func newOwnerAddCommand(g *globals) *cobra.Command {
	var o model.Owner
	var method string

	cmd := &cobra.Command{
		Use:   "add <ref>",
		Short: "Register an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := model.ParseTaxMethod(method)
			if !ok {
				return fmt.Errorf("unknown tax method %q", method)
			}
			o.Ref = args[0]
			o.TaxMethod = m

			return withApp(cmd.Context(), g, func(a *app) error {
				if err := a.store.AddOwner(cmd.Context(), o); err != nil {
					return err
				}
				a.record("owner: add " + o.Ref)
				fmt.Fprintf(cmd.OutOrStdout(), "Added owner %s\n", o.Ref)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&o.Name, "name", "", "display name")
	cmd.Flags().IntVar(&o.BusinessType, "business-type", tax.DefaultBusinessType, "simplified-tax category 1-6")
	cmd.Flags().StringVar(&method, "tax-method", string(model.TaxMethodPrinciple), "principle or simplified")
	cmd.Flags().BoolVar(&o.BlueReturn, "blue-return", true, "files a blue return")
	cmd.Flags().BoolVar(&o.EFiling, "e-filing", true, "files electronically")
	cmd.Flags().BoolVar(&o.DoubleEntry, "double-entry", true, "keeps double-entry books")
	cmd.Flags().StringVar(&o.FiscalYearEnd, "fiscal-year-end", "12-31", "fiscal year end, MM-DD")

	return cmd
}

func newOwnerListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List owners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				owners, err := a.store.Owners(cmd.Context())
				if err != nil {
					return err
				}
				for _, o := range owners {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t業種%d\n", o.Ref, o.Name, o.TaxMethod, o.BusinessType)
				}
				return nil
			})
		},
	}
}
