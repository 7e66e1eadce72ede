package executor

// Result aggregates every error phase C/D/E produced. A run is successful
// iff all three slices are empty (§4.5, "Result").
type Result struct {
	SetupErrors    []error
	CallbackErrors []error
	TeardownErrors []error
}

// Ok reports whether the run completed without any recorded error.
func (r Result) Ok() bool {
	return len(r.SetupErrors) == 0 && len(r.CallbackErrors) == 0 && len(r.TeardownErrors) == 0
}

// ExitCode maps a Result onto the CLI exit codes of §6: 0 success, 2 setup
// failed (teardown succeeded), 3 teardown had errors. Dependency-check
// failures (exit 1) are reported separately by Run's early return, before
// any Result exists.
func (r Result) ExitCode() int {
	switch {
	case len(r.TeardownErrors) > 0:
		return 3
	case len(r.SetupErrors) > 0 || len(r.CallbackErrors) > 0:
		return 2
	default:
		return 0
	}
}
