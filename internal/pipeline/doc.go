// Package pipeline orchestrates the packaging stages for a function.
//
// A run flows through five stages in order: environment management,
// dependency installation (local virtualenv or Lambda-matching container),
// exclusion of runtime-provided packages, bundle assembly, and archive
// writing. Stages never overlap and never branch back; the first failure
// aborts the run with the failing stage named in the error.
//
// One run owns its installation target, staging directory, and archive
// writer exclusively. Runs for different functions are independent and may
// execute concurrently as separate processes.
//
// Example usage:
//
//	result, err := pipeline.Run(ctx, pipeline.Options{
//	    BaseDir:      "functions/resize-image",
//	    UseContainer: true,
//	    Build:        installer.BuildContext{PythonVersion: "3.12"},
//	})
//	if err != nil {
//	    return err
//	}
package pipeline
