package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/onnetwireless/dashboard/core"
	"github.com/onnetwireless/dashboard/core/billing"
	"github.com/onnetwireless/dashboard/core/payment"
	"github.com/onnetwireless/dashboard/core/report"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sql.DB
	reportSvc *report.Service
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "ON-NET WIRELESS administration tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.AddCommand(cli.migrateCmd(), cli.debtorsCmd(), cli.paymentsCmd())
	return root
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "run a goose command (up, down, status, ...) against the database",
		// goose commands take their own arguments, eg. `up-to 2`
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errHelp
			}
			return cli.migrate(cmd.Context(), args)
		},
	}
}

func (cli *commandLine) debtorsCmd() *cobra.Command {
	var asOf, out string
	cmd := &cobra.Command{
		Use:   "debtors",
		Short: "export the customers who owe money to an XLSX sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := billing.DebtorFilter{}
			if asOf != "" {
				d, err := core.ParseDate(asOf)
				if err != nil {
					return errors.Wrap(err, "invalid --as-of")
				}
				filter.AsOf = d
			}
			filter.Clean()

			doc, err := cli.reportSvc.DebtorsXLSX(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if out == "" {
				out = report.Filename("debtors", filter.AsOf)
			}
			return writeFile(cmd, out, doc)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "compute the debt as of this date (YYYY-MM-DD); defaults to today")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; defaults to debtors-<as-of>.xlsx")
	return cmd
}

func (cli *commandLine) paymentsCmd() *cobra.Command {
	var from, to, out string
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "export the payments received in a date range to an XLSX sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				filter payment.QueryFilter
				err    error
			)
			if filter.PaidFrom, err = core.ParseDate(from); err != nil {
				return errors.Wrap(err, "invalid --from")
			}
			if filter.PaidTo, err = core.ParseDate(to); err != nil {
				return errors.Wrap(err, "invalid --to")
			}
			if filter.PaidTo.Before(filter.PaidFrom.Time) {
				return errors.New("--to must not be before --from")
			}

			doc, err := cli.reportSvc.PaymentsXLSX(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if out == "" {
				out = report.Filename("payments", filter.PaidTo)
			}
			return writeFile(cmd, out, doc)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file; defaults to payments-<to>.xlsx")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func writeFile(cmd *cobra.Command, name string, data []byte) error {
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", name)
	return nil
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}
