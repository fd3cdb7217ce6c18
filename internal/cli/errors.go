package cli

// CompileError wraps a lox compile failure so Main can map it to exit code
// 65 (spec.md §6); the diagnostics themselves have already been written to
// stderr by the time this is returned.
type CompileError struct{ msg string }

func (e *CompileError) Error() string { return e.msg }

// RuntimeError wraps a lox runtime failure (exit code 70); likewise, the
// message and stack trace are already on stderr.
type RuntimeError struct{ msg string }

func (e *RuntimeError) Error() string { return e.msg }

// UsageError is an error type for command-line misuse (exit code 64).
// Nothing in this package constructs one: `lox a b` is rejected by the
// command's Validate method, and Main maps that parse failure to exit code
// 64 itself.
type UsageError struct{ msg string }

func (e *UsageError) Error() string { return e.msg }
