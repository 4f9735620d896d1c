package schema

import (
	"errors"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	ErrDuplicatePath       = errors.New("duplicate path")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrProtocol            = errors.New("protocol error")
	ErrContentMissing      = errors.New("content missing")
	ErrTransfer            = errors.New("transfer failed")
	ErrIndexingFailure     = errors.New("indexing failure")
	ErrRawMetadataExpected = errors.New("raw metadata expected")
	ErrInvalidArtifactId   = errors.New("invalid artifact identifier")
	ErrInvalidMetadata     = errors.New("invalid metadata")
	ErrInvalidAction       = errors.New("invalid permissions action")
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// DuplicatePathError is returned when a path appears in more than one of the
// primary, explicit MD5 and explicit link sets of a manifest
type DuplicatePathError struct {
	Path string
	Set  string // the set in which the path was seen a second time
}

// DuplicateKeyError is returned when two metadata entries collide on the
// same key while planning a clone
type DuplicateKeyError struct {
	Key  string
	Kind string // "metadata" or "link"
}

// ProtocolError is returned for a non-success HTTP status
type ProtocolError struct {
	Op     string
	Status int
	Reason string // server-supplied reason, if any
	Err    error
}

// ContentMissingError is returned when a presigned entry has no content
type ContentMissingError struct {
	Path string
}

// TransferError is returned when a content upload or link creation fails
type TransferError struct {
	Path string
	Link bool
	Err  error
}

// IndexingFailureError is returned when the server reports that indexing
// of a completed upload failed
type IndexingFailureError struct {
	JobId     JobId
	StatusUrl string
}

// RawMetadataExpectedError is returned when a metadata entry still carries
// server-injected fields
type RawMetadataExpectedError struct {
	Path  string
	Field string
}

// InvalidArtifactIdError is returned when an identifier cannot be packed or parsed
type InvalidArtifactIdError struct {
	Id     string
	Reason string
}

////////////////////////////////////////////////////////////////////////////////
// ERROR

func (e *DuplicatePathError) Error() string {
	if e.Set == "" {
		return fmt.Sprintf("multiple occurrences of path %q", e.Path)
	}
	return fmt.Sprintf("multiple occurrences of path %q (in %s)", e.Path, e.Set)
}

func (e *DuplicatePathError) Is(target error) bool {
	return target == ErrDuplicatePath
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate %s key %q", e.Kind, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func (e *ProtocolError) Error() string {
	msg := e.Op
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Reason != "" {
		msg += "; " + e.Reason
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

func (e *ContentMissingError) Error() string {
	return fmt.Sprintf("failed to find path %q in contents", e.Path)
}

func (e *ContentMissingError) Is(target error) bool {
	return target == ErrContentMissing
}

func (e *TransferError) Error() string {
	what := "upload to presigned URL"
	if e.Link {
		what = "create link"
	}
	if e.Err == nil {
		return fmt.Sprintf("failed to %s for path %q", what, e.Path)
	}
	return fmt.Sprintf("failed to %s for path %q: %v", what, e.Path, e.Err)
}

func (e *TransferError) Is(target error) bool {
	return target == ErrTransfer
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func (e *IndexingFailureError) Error() string {
	return fmt.Sprintf("indexing failure on job %q, see %s for more details", e.JobId, e.StatusUrl)
}

func (e *IndexingFailureError) Is(target error) bool {
	return target == ErrIndexingFailure
}

func (e *RawMetadataExpectedError) Error() string {
	return fmt.Sprintf("metadata for %q contains server-injected field %q", e.Path, e.Field)
}

func (e *RawMetadataExpectedError) Is(target error) bool {
	return target == ErrRawMetadataExpected
}

func (e *InvalidArtifactIdError) Error() string {
	return fmt.Sprintf("invalid artifact identifier %q: %s", e.Id, e.Reason)
}

func (e *InvalidArtifactIdError) Is(target error) bool {
	return target == ErrInvalidArtifactId
}
