package cli

import (
	"errors"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xctasks/internal/app"
	"xctasks/internal/core"
	"xctasks/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	envPrefix          = "XCTASKS"
	defaultProjectFile = "xctasks.yaml"
)

var newAppService = app.NewService

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Project    string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "xctasks",
		Short:        "Build task orchestration for Xcode projects",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			cmd.SetContext(log.Logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.Project, "project", defaultProjectFile, "Project file path")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("project", cmd.PersistentFlags().Lookup("project"))

	cmd.AddCommand(newTasksCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newPathsCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newChangelogCommand())
	return cmd
}

func initConfig(configFile string) error {
	// Local .env files carry CI and keychain variables on developer machines.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("xctasks-cli")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/xctasks")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// exitCodeForError maps a failed external process to its own exit status
// and every other error to a code derived from its errbuilder code.
func exitCodeForError(err error) int {
	var failure *core.TaskFailure
	if errors.As(err, &failure) {
		if failure.ExitStatus > 0 {
			return failure.ExitStatus
		}
		return exitCodeForError(failure.Err)
	}
	var exitErr *types.ProcessExitError
	if errors.As(err, &exitErr) && exitErr.Status > 0 {
		return exitErr.Status
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound:
		return 5
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
