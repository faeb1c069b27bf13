// Package installer resolves and installs manifest dependencies.
//
// Two implementations share the [Installer] contract. [Local] runs pip from
// the project virtualenv on the host. [Container] runs the same install
// inside a Lambda base image pulled for an explicit target platform, so
// natively compiled wheels match the deployment runtime's OS and
// architecture. Both produce an installation target with identical flat
// directory semantics; downstream stages never know which mode ran.
//
// Container-mode failures are split into [ErrContainerUnavailable] (no
// container runtime to talk to) and [ErrInstall] (the build itself failed)
// so callers can fall back to local mode or surface a resolution error.
package installer
