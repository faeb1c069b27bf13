package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/bkovaluk/lambdapack/internal"
)

// Represents the root command for the lambdapack CLI.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Package PackageCmd `cmd:"" help:"Package a Lambda function into a release archive."`
	Run     RunCmd     `cmd:"" help:"Run a script inside the function's virtualenv."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name("lambdapack"),
		kong.Description("Packages Python Lambda functions into deployable archives.\n\nDependencies are installed locally or inside a Lambda-compatible container, runtime-provided packages are stripped, and the bundle is zipped the way the Lambda loader expects."),
		kong.UsageOnError(),
		kong.Vars{
			"version":        internal.VersionString(),
			"default_python": defaultPythonVersion,
			"arch":           internal.Arch(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	handler, ok := slog.Default().Handler().(*log.Logger)
	if !ok {
		return // Not a charmbracelet handler, nothing to configure
	}

	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	switch {
	case debug:
		handler.SetLevel(log.DebugLevel)
	case quiet:
		handler.SetLevel(log.WarnLevel)
	default:
		handler.SetLevel(log.InfoLevel)
	}

	handler.SetReportCaller(debug)
	handler.SetReportTimestamp(verbose || debug)
}
