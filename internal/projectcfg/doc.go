// Loads the optional lambdapack.toml configuration file.
//
// The file lives next to the function source and records per-function
// packaging defaults: interpreter version, manifest name, exclusion
// overrides, and containerized build settings. Precedence is built-in
// defaults, then the file, then CLI flags.
package projectcfg
