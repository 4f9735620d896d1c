package upload

import (
	"context"
	"errors"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run transfers the contents and completes an initialized session. When
// either phase fails the upload is aborted once and the error from the phase
// is returned, with a result recording the outcome of the abort. An abort
// which fails is logged and never replaces the error from the phase.
func (s *Session) Run(ctx context.Context, contents map[string][]byte, permissions schema.UploadPermissions) (*schema.UploadResult, error) {
	result, err := s.run(ctx, contents, permissions)
	if err == nil {
		return result, nil
	} else if errors.Is(err, ErrInvalidState) {
		return nil, err
	}

	// The abort is sent even when the context was the cause of the failure
	result = &schema.UploadResult{JobId: s.Job()}
	if abortErr := s.Abort(context.WithoutCancel(ctx)); abortErr != nil {
		s.logger.WarnContext(ctx, "failed to abort upload", "project", s.project, "version", s.version, "error", abortErr)
		result.AbortErr = abortErr
	} else {
		result.Aborted = true
	}
	return result, err
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Session) run(ctx context.Context, contents map[string][]byte, permissions schema.UploadPermissions) (*schema.UploadResult, error) {
	if err := s.Transfer(ctx, contents); err != nil {
		return nil, err
	}
	return s.Complete(ctx, permissions)
}
