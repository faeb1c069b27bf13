// Provides the fixed directory layout of a packaging run.
//
// All pipeline directories (virtualenv, installation target, release) live
// at fixed relative paths under the function root. The containerd socket
// follows the system location with an XDG fallback for rootless setups.
package paths
