package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	// Packages
	artifactdb "github.com/mutablelogic/go-artifactdb"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Session is a single attempt to upload a new version of a project. A
// session cannot be reused once it has succeeded, failed or been aborted.
type Session struct {
	opts
	sync.Mutex
	backend    artifactdb.Uploader
	poller     *Poller
	project    string
	version    string
	state      State
	descriptor *schema.SessionDescriptor
	job        schema.JobId
}

// State is the phase of an upload session
type State uint

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Created State = iota
	Initialized
	Transferring
	Completing
	Succeeded
	Failed
	Aborted
)

var (
	ErrInvalidState = errors.New("invalid session state")
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewSession returns a session to upload a version of a project
func NewSession(backend artifactdb.Uploader, project, version string, opts ...Opt) (*Session, error) {
	if project == "" || strings.Contains(project, ":") {
		return nil, httpresponse.ErrBadRequest.Withf("invalid project %q", project)
	} else if version == "" || strings.Contains(version, "@") {
		return nil, httpresponse.ErrBadRequest.Withf("invalid version %q", version)
	}

	self := &Session{backend: backend, project: project, version: version}
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}
	self.poller = &Poller{opts: self.opts, jobs: backend}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Initialized:
		return "initialized"
	case Transferring:
		return "transferring"
	case Completing:
		return "completing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", uint(s))
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// State returns the current phase of the session
func (s *Session) State() State {
	s.Lock()
	defer s.Unlock()
	return s.state
}

// Descriptor returns the session descriptor returned by the backend, or nil
// if the session has not been initialized
func (s *Session) Descriptor() *schema.SessionDescriptor {
	s.Lock()
	defer s.Unlock()
	return s.descriptor
}

// Job returns the indexing job, or empty if the upload has not been completed
func (s *Session) Job() schema.JobId {
	s.Lock()
	defer s.Unlock()
	return s.job
}

// Initialize sends the manifest to the backend, which returns the presigned
// URLs for content, the links to create and the completion and abort URLs.
func (s *Session) Initialize(ctx context.Context, manifest *schema.Manifest) (err error) {
	if manifest == nil {
		return httpresponse.ErrBadRequest.Withf("manifest is nil")
	}
	if err := s.enter(Initialized, Created); err != nil {
		return err
	}
	defer func() { s.leave(err) }()

	child, endFunc := otel.StartSpan(s.tracer, ctx, spanName("Initialize"))
	defer func() { endFunc(err) }()

	descriptor, err := s.backend.StartUpload(child, s.project, s.version, manifest.UploadRequest())
	if err != nil {
		return err
	}

	s.Lock()
	s.descriptor = descriptor
	s.Unlock()
	s.logger.DebugContext(child, "upload initialized", "project", s.project, "version", s.version, "presigned", len(descriptor.PresignedUrls), "links", len(descriptor.Links))
	return nil
}

// Complete tells the backend that every file has been transferred, with the
// permissions to apply if the project is new, and waits for the version to
// be indexed. A result which is not indexed means the job was still running
// when polling timed out, and the session remains in the Completing state.
func (s *Session) Complete(ctx context.Context, permissions schema.UploadPermissions) (_ *schema.UploadResult, err error) {
	if err := s.enter(Completing, Transferring); err != nil {
		return nil, err
	}
	defer func() { s.leave(err) }()

	child, endFunc := otel.StartSpan(s.tracer, ctx, spanName("Complete"))
	defer func() { endFunc(err) }()

	response, err := s.backend.CompleteUpload(child, s.Descriptor().CompletionUrl, permissions.CompleteRequest())
	if err != nil {
		return nil, err
	}
	s.Lock()
	s.job = response.JobId
	s.Unlock()
	s.logger.DebugContext(child, "upload completed", "project", s.project, "version", s.version, "job", response.JobId)

	// Wait for indexing
	result, err := s.poller.Wait(child, response.JobId)
	if err != nil {
		return nil, err
	}
	if result.Indexed {
		s.set(Succeeded)
	}
	return result, nil
}

// Abort tells the backend to discard the upload. It can be called once the
// session is initialized and before it succeeds.
func (s *Session) Abort(ctx context.Context) (err error) {
	s.Lock()
	switch {
	case s.descriptor == nil:
		err = fmt.Errorf("%w: cannot abort a session which is %v", ErrInvalidState, s.state)
	case s.state == Initialized, s.state == Transferring, s.state == Completing, s.state == Failed:
		// Abort
	default:
		err = fmt.Errorf("%w: cannot abort a session which is %v", ErrInvalidState, s.state)
	}
	abortUrl := ""
	if s.descriptor != nil {
		abortUrl = s.descriptor.AbortUrl
	}
	s.Unlock()
	if err != nil {
		return err
	}

	child, endFunc := otel.StartSpan(s.tracer, ctx, spanName("Abort"))
	defer func() { endFunc(err) }()

	if err := s.backend.AbortUpload(child, abortUrl); err != nil {
		return err
	}
	s.set(Aborted)
	s.logger.DebugContext(child, "upload aborted", "project", s.project, "version", s.version)
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// enter moves the session to the next state when it is in the expected state
func (s *Session) enter(next, expected State) error {
	s.Lock()
	defer s.Unlock()
	if s.state != expected {
		return fmt.Errorf("%w: cannot move from %v to %v", ErrInvalidState, s.state, next)
	}
	s.state = next
	return nil
}

// leave moves the session to the Failed state when a phase returns an error
func (s *Session) leave(err error) {
	if err != nil {
		s.set(Failed)
	}
}

func (s *Session) set(state State) {
	s.Lock()
	defer s.Unlock()
	s.state = state
}
