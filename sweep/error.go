package sweep

import "fmt"

// Aggregates the errors that occurred during a sweep
type sweepError struct {
	errorSlice []error
}

func (se sweepError) Error() string {
	return fmt.Sprintf("Sweep: %v Errors occurred running simulations. \nError 1: %v", len(se.errorSlice), se.errorSlice[0])
}

func (se sweepError) Unwrap() []error {
	return se.errorSlice
}
