package installer

import "errors"

var (
	ErrInstall              = errors.New("dependency installation failed")
	ErrPipUpgrade           = errors.New("pip upgrade failed")
	ErrContainerUnavailable = errors.New("container runtime unavailable")
)
