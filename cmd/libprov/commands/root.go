// Package commands implements the CLI commands for libprov.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/libprov/internal/app"
	"go.trai.ch/libprov/internal/build"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
)

// Application represents the application logic interface.
type Application interface {
	Provision(ctx context.Context, opts app.Options) ([]app.Outcome, error)
	Resolve(ctx context.Context, codes []string) ([]domain.TargetArchitecture, error)
	Status(ctx context.Context, opts app.Options) ([]domain.Status, error)
}

// jsonSwitch is implemented by loggers that can emit JSON records.
type jsonSwitch interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for libprov.
type CLI struct {
	app     Application
	logger  ports.Logger
	format  logFormat
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app. The logger is switched
// to JSON output by --log-format=json when it supports it.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "libprov",
		Short:         "Cross-build and install libgpiod for target architectures",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default \""+domain.ConfigFileName+"\" if present)")
	rootCmd.PersistentFlags().String("root", "", "Host root all system paths are relative to")

	c := &CLI{
		app:     a,
		logger:  logger,
		format:  logFormatText,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentFlags().Var(&c.format, "log-format", "Log format")
	rootCmd.PersistentPreRunE = c.configureLogging

	rootCmd.AddCommand(c.newProvisionCmd())
	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogging(_ *cobra.Command, _ []string) error {
	if s, ok := c.logger.(jsonSwitch); ok {
		s.SetJSON(c.format == logFormatJSON)
	}
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// addTargetFlags registers the flags selecting what to provision or inspect.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("arch", "a", nil, "Architecture codes (comma separated, default: host architecture)")
	cmd.Flags().String("version", "", "Library version (default \""+domain.DefaultVersion+"\")")
}

// targetOptions reads the flags shared by provision and status.
func targetOptions(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	root, _ := cmd.Flags().GetString("root")
	archs, _ := cmd.Flags().GetStringSlice("arch")
	version, _ := cmd.Flags().GetString("version")

	return app.Options{
		ConfigPath:    configPath,
		Root:          root,
		Architectures: domain.ParseArchitectureList(strings.Join(archs, ",")),
		Version:       version,
	}
}
