// Manages isolated Python environments for packaging runs.
//
// An [Env] wraps a project virtualenv at a fixed path under the function
// root. Ensure is idempotent: an existing environment is reused as-is and
// the base interpreter is never reinstalled. Executable resolution is
// platform-aware (POSIX bin/ vs Windows Scripts\ layouts).
//
// Example usage:
//
//	env, err := pyenv.Ensure(ctx, "/path/to/function")
//	if err != nil {
//	    return err
//	}
//
//	cmd := exec.CommandContext(ctx, env.Python(), "-m", "pip", "--version")
package pyenv
