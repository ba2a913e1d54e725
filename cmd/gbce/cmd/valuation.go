package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyeddy/gbce/exchange"
	"github.com/spf13/cobra"
)

var yieldCmd = &cobra.Command{
	Use:   "yield <stock> <price>",
	Short: "Calculate the dividend yield of a stock",
	Example: `  gbce yield GIN 500
  gbce yield pop 42.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValuation(cmd, args, (*exchange.Exchange).DividendYield)
	},
}

var peCmd = &cobra.Command{
	Use:     "pe <stock> <price>",
	Short:   "Calculate the P/E ratio of a stock",
	Example: `  gbce pe JOE 130`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValuation(cmd, args, (*exchange.Exchange).PERatio)
	},
}

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List the instrument catalog",
	Args:  cobra.NoArgs,
	RunE:  runInstruments,
}

func init() {
	rootCmd.AddCommand(yieldCmd)
	rootCmd.AddCommand(peCmd)
	rootCmd.AddCommand(instrumentsCmd)
}

func runValuation(cmd *cobra.Command, args []string, calc func(*exchange.Exchange, string, float64) (float64, error)) error {
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, log, err := newExchange(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer ex.Close()

	v, err := calc(ex, strings.ToUpper(args[0]), price)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}

func runInstruments(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s %-10s %14s %15s %10s\n", "SYMBOL", "TYPE", "LAST DIVIDEND", "FIXED DIVIDEND", "PAR VALUE")
	for _, sym := range catalog.Symbols() {
		inst, _ := catalog.Lookup(sym)
		fixed := "-"
		if inst.FixedDividend > 0 {
			fixed = fmt.Sprintf("%g%%", inst.FixedDividend)
		}
		fmt.Fprintf(out, "%-8s %-10s %14g %15s %10g\n", inst.Symbol, inst.Type, inst.LastDividend, fixed, inst.ParValue)
	}
	return nil
}
