package shell

import (
	"fmt"

	"github.com/ValentinKolb/techlog/cmd/util"
	"github.com/spf13/cobra"
)

// NewCmd creates the command starting the interactive menu
func NewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive menu (default)",
		Long: `Start the interactive menu. The log is loaded from techlog.dat in the
working directory and saved when choosing "Save and exit", when the input
ends and on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: RunE,
	}
}

// RunE runs the interactive shell for cmd
func RunE(cmd *cobra.Command, _ []string) error {
	sess, _, res, err := util.OpenSession(cmd, util.GetConfig())
	if err != nil {
		return err
	}
	if res.Warning != nil {
		cmd.PrintErrln("Saving from the menu replaces the unreadable file.")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "=========================================")
	_, _ = fmt.Fprintln(out, "   techlog: IT service intervention log  ")
	_, _ = fmt.Fprintln(out, "=========================================")

	stop := WatchSignals(sess, out)
	defer stop()

	return New(cmd.InOrStdin(), out, sess).Run()
}
