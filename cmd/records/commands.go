package records

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/techlog/cmd/shell"
	"github.com/ValentinKolb/techlog/cmd/util"
	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/session"
	"github.com/spf13/cobra"
)

type addFunc func(s *session.Session, client string, date time.Time, description, detail string) (record.Record, error)

// newAddCmd creates an add command for one kind of intervention.
// detailFlag names the flag holding the variant specific field.
func newAddCmd(use, short, detailFlag, detailHelp string, add addFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _ := cmd.Flags().GetString("client")
			description, _ := cmd.Flags().GetString("description")
			detail, _ := cmd.Flags().GetString(detailFlag)
			dateStr, _ := cmd.Flags().GetString("date")
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}

			sess, err := openSessionForWrite(cmd)
			if err != nil {
				return err
			}
			r, err := add(sess, client, date, description, detail)
			if err != nil {
				return err
			}
			if err := sess.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", r)
			return nil
		},
	}
	cmd.Flags().String("client", "", util.WrapString("Name of the client (required)"))
	cmd.Flags().String("date", "", util.WrapString("Date of the intervention as YYYY-MM-DD (default today)"))
	cmd.Flags().String("description", "", util.WrapString("What was done (required)"))
	cmd.Flags().String(detailFlag, "", util.WrapString(detailHelp))
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired(detailFlag)
	return cmd
}

func newAddHardwareCmd() *cobra.Command {
	return newAddCmd("hardware", "Log a hardware intervention", "part",
		"Replacement part that was installed (required)",
		(*session.Session).AddHardware)
}

func newAddSoftwareCmd() *cobra.Command {
	return newAddCmd("software", "Log a software intervention", "os",
		"Operating system of the serviced machine (required). Server systems are billed at a higher rate",
		(*session.Session).AddSoftware)
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all interventions with the billable total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := openSession(cmd)
			if err != nil {
				return err
			}
			l := sess.List()
			for _, r := range l.Records {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d interventions, total %s EUR\n", len(l.Records), record.FormatTariff(l.Total))
			return nil
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find [id]",
		Short: "Show the intervention with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd)
			if err != nil {
				return err
			}
			r, err := sess.Find(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Correct fields of a logged intervention",
		Long: `Correct fields of a logged intervention. Only the given flags are changed.
--detail is the replacement part of a hardware intervention or the operating
system of a software intervention.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changes session.Changes
			flags := cmd.Flags()
			if flags.Changed("client") {
				v, _ := flags.GetString("client")
				changes.Client = &v
			}
			if flags.Changed("date") {
				v, _ := flags.GetString("date")
				date, err := record.ParseDate(v)
				if err != nil {
					return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", v)
				}
				changes.Date = &date
			}
			if flags.Changed("description") {
				v, _ := flags.GetString("description")
				changes.Description = &v
			}
			if flags.Changed("detail") {
				v, _ := flags.GetString("detail")
				changes.Detail = &v
			}

			sess, err := openSessionForWrite(cmd)
			if err != nil {
				return err
			}
			r, err := sess.Edit(args[0], changes)
			if err != nil {
				return err
			}
			if err := sess.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", r)
			return nil
		},
	}
	cmd.Flags().String("client", "", util.WrapString("New client name"))
	cmd.Flags().String("date", "", util.WrapString("New date as YYYY-MM-DD"))
	cmd.Flags().String("description", "", util.WrapString("New description"))
	cmd.Flags().String("detail", "", util.WrapString("New replacement part or operating system"))
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete the intervention with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSessionForWrite(cmd)
			if err != nil {
				return err
			}
			if err := sess.Delete(args[0]); err != nil {
				return err
			}
			if err := sess.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", record.NormalizeID(args[0]))
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the billing summary per kind of intervention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := openSession(cmd)
			if err != nil {
				return err
			}
			shell.WriteSummary(cmd.OutOrStdout(), sess.Summary())
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the persistence metrics after loading the log (Prometheus text format)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, engine, err := openSession(cmd)
			if err != nil {
				return err
			}
			engine.WriteMetrics(cmd.OutOrStdout())
			return nil
		},
	}
}
