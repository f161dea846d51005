package contract

import (
	"errors"
	"fmt"
)

// ErrEmptyFeatureSet is returned when no feature is enabled for the configured unit.
var ErrEmptyFeatureSet = errors.New("list of features to build is empty")

// ErrUnknownUnit is returned for a unit other than officer or dispatch.
var ErrUnknownUnit = errors.New("unknown unit")

// UnknownFeatureError reports a feature name absent from the registry.
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature: %s", e.Name)
}

// IsUnknownFeature reports whether err carries an UnknownFeatureError.
func IsUnknownFeature(err error) bool {
	var ufe *UnknownFeatureError
	return errors.As(err, &ufe)
}

// MissingLookbackError reports a time-gated feature without a configured lookback.
type MissingLookbackError struct {
	Feature string
}

func (e *MissingLookbackError) Error() string {
	return fmt.Sprintf("no lookback duration configured for time-gated feature %s", e.Feature)
}

// ExecutionError wraps a warehouse failure with the table it targeted.
type ExecutionError struct {
	Table     string
	Statement string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("warehouse execution failed on %s: %v", e.Table, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
