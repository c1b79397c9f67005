package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/techlog/cmd/records"
	"github.com/ValentinKolb/techlog/cmd/shell"
	"github.com/ValentinKolb/techlog/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)
}

// NewRootCmd creates the complete command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "techlog",
		Short: "billable service log for IT interventions",
		Long: fmt.Sprintf(`techlog (v%s)

A personal log of hardware and software interventions performed for clients.
Every intervention has a tariff, the log is kept in techlog.dat in the
working directory and written atomically.

Without a subcommand the interactive menu is started. Settings can be given
as flags or as environment variables in the format TECHLOG_<flag>
(e.g. TECHLOG_CODEC=yaml), also read from .env and .env.local.`, Version),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := util.Setup(cmd)
			return err
		},
		RunE: shell.RunE,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of techlog",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "techlog v%s\n", Version)
		},
	}

	// Add Commands
	root.AddCommand(shell.NewCmd())
	root.AddCommand(records.Commands()...)
	root.AddCommand(versionCmd)

	// Add Flags
	key := "codec"
	root.PersistentFlags().String(key, "json", util.WrapString("codec used when saving (json, yaml, binary, msgpack). Loading detects the codec of the file"))
	key = "log-level"
	root.PersistentFlags().String(key, "warn", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
