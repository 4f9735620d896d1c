package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// JobState is the state of an indexing job
type JobState string

// JobStatus is the last observed status of an indexing job
type JobStatus struct {
	JobId  JobId    `json:"job_id,omitempty"`
	Status JobState `json:"status"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	JobPending JobState = "PENDING"
	JobSuccess JobState = "SUCCESS"
	JobFailure JobState = "FAILURE"
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (j JobStatus) String() string {
	return types.Stringify(j)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Terminal returns true if the job has either succeeded or failed
func (s JobState) Terminal() bool {
	return s == JobSuccess || s == JobFailure
}
