package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/techlog/cmd/util"
	"github.com/ValentinKolb/techlog/lib/persist"
	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/session"
	"github.com/spf13/cobra"
)

// Commands creates the one-shot record commands
func Commands() []*cobra.Command {
	add := &cobra.Command{
		Use:   "add",
		Short: "Log a new intervention",
	}
	add.AddCommand(newAddHardwareCmd())
	add.AddCommand(newAddSoftwareCmd())

	return []*cobra.Command{
		add,
		newListCmd(),
		newFindCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newSummaryCmd(),
		newStatsCmd(),
	}
}

// ErrUnreadableLog is returned by the modifying commands when the data file
// exists but could not be loaded. Saving would replace it with a log holding
// only the change.
var ErrUnreadableLog = errors.New("refusing to modify the log")

// openSession loads the log for a single read-only command
func openSession(cmd *cobra.Command) (*session.Session, *persist.Engine, error) {
	sess, engine, _, err := util.OpenSession(cmd, util.GetConfig())
	return sess, engine, err
}

// openSessionForWrite loads the log for a command that saves it afterwards.
// It fails if the data file could not be loaded, the file is left untouched.
func openSessionForWrite(cmd *cobra.Command) (*session.Session, error) {
	sess, _, res, err := util.OpenSession(cmd, util.GetConfig())
	if err != nil {
		return nil, err
	}
	if res.Warning != nil {
		return nil, fmt.Errorf("%w: %w (repair or move the file first)", ErrUnreadableLog, res.Warning)
	}
	return sess, nil
}

// parseDate parses the value of a --date flag. An empty value yields the
// zero time, which the session replaces with today.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := record.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return date, nil
}
