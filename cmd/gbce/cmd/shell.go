package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/rustyeddy/gbce/internal/shell"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive menu",
	Long: `Start the interactive options menu. Trades recorded in the shell live
in memory for the life of the process; configure a journal to keep an
audit trail.

Parameters are separated by whitespace:
  1 <stock> <price>                       dividend yield
  2 <stock> <price>                       P/E ratio
  3 <stock> <quantity> <buy|sell> <price> record a trade
  4 <stock>                               volume weighted stock price
  5                                       all share index
  6                                       market summary
  0                                       exit`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return shell.New(ex, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), log).Run(ctx)
}
