package models

import "fmt"

// NonMonotonicTimeSeriesError reports a malformed input series. The engine
// refuses to process anything after detecting one.
type NonMonotonicTimeSeriesError struct {
	Index int
	Prev  int64
	Curr  int64
}

func (e *NonMonotonicTimeSeriesError) Error() string {
	return fmt.Sprintf("non-monotonic time series at index %d: %d -> %d", e.Index, e.Prev, e.Curr)
}

// ModelNotTrainedError is returned when a prediction is requested from a
// classifier that has not been fit yet.
type ModelNotTrainedError struct {
	Strategy string
}

func (e *ModelNotTrainedError) Error() string {
	return fmt.Sprintf("%s: model has not been trained", e.Strategy)
}

// InvalidConfigurationError reports a config value outside its allowed range.
// It is raised at load time, never mid-run.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// InsufficientHistoryError reports that an indicator needs more bars than
// are loaded. Inside the pipeline this condition degrades to unavailable
// features; it only surfaces on direct queries against an empty window.
type InsufficientHistoryError struct {
	Indicator string
	Timestamp int64
}

func (e *InsufficientHistoryError) Error() string {
	if e.Indicator == "" {
		return fmt.Sprintf("insufficient history at %d", e.Timestamp)
	}
	return fmt.Sprintf("insufficient history for %s at %d", e.Indicator, e.Timestamp)
}
