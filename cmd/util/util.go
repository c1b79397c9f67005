package util

import (
	"strings"

	"github.com/ValentinKolb/techlog/lib/codec"
	"github.com/ValentinKolb/techlog/lib/common"
	"github.com/ValentinKolb/techlog/lib/persist"
	"github.com/ValentinKolb/techlog/lib/session"
	"github.com/ValentinKolb/techlog/lib/store/lstore"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

var log = logger.GetLogger("cli")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("techlog")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the configuration from viper
func GetConfig() common.Config {
	return common.Config{
		Codec:    strings.ToLower(viper.GetString("codec")),
		LogLevel: strings.ToLower(viper.GetString("log-level")),
		DataFile: persist.DataFile,
		TempFile: persist.TempFile,
	}
}

// Setup validates the configuration and initializes the loggers.
// It is meant to run before every command.
func Setup(cmd *cobra.Command) (common.Config, error) {
	if err := BindCommandFlags(cmd); err != nil {
		return common.Config{}, err
	}
	config := GetConfig()
	if err := config.Validate(); err != nil {
		return common.Config{}, err
	}
	if err := common.InitLoggers(config); err != nil {
		return common.Config{}, err
	}
	log.Debugf("configuration:%s", config.String())
	return config, nil
}

// NewEngine creates the persistence engine for the data file in the working directory
func NewEngine(config common.Config) (*persist.Engine, error) {
	c, err := codec.ForName(config.Codec)
	if err != nil {
		return nil, err
	}
	return persist.NewEngine(persist.Options{
		Fs:    afero.NewOsFs(),
		Codec: c,
	}), nil
}

// OpenSession creates a session backed by a local store and loads the data file.
// A load warning is reported on stderr of cmd and the session starts empty.
// The caller decides from the returned LoadResult whether the session may be saved.
func OpenSession(cmd *cobra.Command, config common.Config) (*session.Session, *persist.Engine, persist.LoadResult, error) {
	engine, err := NewEngine(config)
	if err != nil {
		return nil, nil, persist.LoadResult{}, err
	}
	sess := session.New(lstore.NewLocalStore(), engine)
	res := sess.Open()
	if res.Warning != nil {
		cmd.PrintErrf("Warning: %v\nStarting with an empty log.\n", res.Warning)
	}
	return sess, engine, res, nil
}
