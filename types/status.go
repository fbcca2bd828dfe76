package types

// TestStatus represents the possible states of a test execution
type TestStatus string

const (
	TestStatusPass  TestStatus = "pass"
	TestStatusFail  TestStatus = "fail"
	TestStatusSkip  TestStatus = "skip"
	TestStatusError TestStatus = "error"
)

// IsFailure reports whether the status counts against the process exit
// contract (FAIL and ERROR both make a run unsuccessful).
func (s TestStatus) IsFailure() bool {
	return s == TestStatusFail || s == TestStatusError
}
