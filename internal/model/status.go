package model

// RecordStatus represents the status of a download record
type RecordStatus string

const (
	// StatusPending means the record is queued but not started
	StatusPending RecordStatus = "Pending"

	// StatusRunning means the record is being processed
	StatusRunning RecordStatus = "Running"

	// StatusSucceeded means every requested asset was produced
	StatusSucceeded RecordStatus = "Succeeded"

	// StatusPartiallySucceeded means some, but not all, requested assets were produced
	StatusPartiallySucceeded RecordStatus = "PartiallySucceeded"

	// StatusFailed means the record produced nothing usable
	StatusFailed RecordStatus = "Failed"
)

// String returns the string representation of RecordStatus
func (rs RecordStatus) String() string {
	return string(rs)
}

// IsActive returns true if the record is currently being processed
func (rs RecordStatus) IsActive() bool {
	return rs == StatusRunning
}

// IsTerminal returns true if the record reached a terminal state
func (rs RecordStatus) IsTerminal() bool {
	return rs == StatusSucceeded || rs == StatusPartiallySucceeded || rs == StatusFailed
}

// AttemptOutcome classifies how a single engine attempt ended
type AttemptOutcome string

const (
	// OutcomeSucceeded means the engine produced every requested asset
	OutcomeSucceeded AttemptOutcome = "Succeeded"

	// OutcomePartial means the engine produced a non-empty subset of the requested assets
	OutcomePartial AttemptOutcome = "Partial"

	// OutcomeUnavailable means the engine could not be initialized
	OutcomeUnavailable AttemptOutcome = "Unavailable"

	// OutcomeFetchFailed means the remote resource could not be retrieved
	OutcomeFetchFailed AttemptOutcome = "FetchFailed"
)
