package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nyashahama/financial-agent-backend/internal/finance"
)

var estimateFlags struct {
	businessName string
	businessType string
	industry     string
	investment   float64
	fallback     bool
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the baseline financial report for a business without calling any AI provider",
	Example: `  api estimate --business-type cafe --industry food --investment 100000
  api estimate --business-type salon --fallback`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := finance.BusinessProfile{
			BusinessName: estimateFlags.businessName,
			BusinessType: estimateFlags.businessType,
			Industry:     estimateFlags.industry,
		}
		if cmd.Flags().Changed("investment") {
			v := estimateFlags.investment
			p.InitialInvestment = &v
		}

		var report any = finance.Compute(p)
		if estimateFlags.fallback {
			report = finance.Fallback(p)
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("estimate: encode report: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	f := estimateCmd.Flags()
	f.StringVar(&estimateFlags.businessName, "business-name", "", "business name echoed in the report")
	f.StringVar(&estimateFlags.businessType, "business-type", "", "business type, e.g. cafe")
	f.StringVar(&estimateFlags.industry, "industry", "", "industry, e.g. food")
	f.Float64Var(&estimateFlags.investment, "investment", 0, "initial investment; omit for placeholder figures")
	f.BoolVar(&estimateFlags.fallback, "fallback", false, "print the reduced fallback report instead")
	_ = estimateCmd.MarkFlagRequired("business-type")
}
