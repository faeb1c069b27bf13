// Defines the lambdapack command line surface.
//
// The root command accepts the following flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//
// Subcommands cover the packaging pipeline ('package'), running scripts inside
// a function's virtualenv ('run'), and version reporting ('version'). Flags
// override values from lambdapack.toml, which override built-in defaults.
// After parsing, the global logger is reconfigured to reflect the final level
// and verbosity before the selected command runs.
package cli
