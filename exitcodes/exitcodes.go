// Package exitcodes defines the standard exit codes used by datacheck.
package exitcodes

// Exit code constants used by datacheck
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when all checks pass or are skipped
// * TestFailure (1): Used when one or more checks fail
// * RuntimeErr (2): Used for runtime errors such as panics, timeouts or other failures
const (
	Success     = 0 // All checks pass
	TestFailure = 1 // Check failures
	RuntimeErr  = 2 // Runtime errors or timeouts
)
