package manager

import (
	"context"

	// Packages
	artifactdb "github.com/mutablelogic/go-artifactdb"
	planner "github.com/mutablelogic/go-artifactdb/pkg/planner"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	upload "github.com/mutablelogic/go-artifactdb/pkg/upload"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Manager uploads and clones project versions on a backend
type Manager struct {
	opts
	backend artifactdb.Backend
}

// ProjectRequest describes a new version of a project: the paths and how
// they are deduplicated, the content of every file which may need to be
// uploaded, and the permissions of the project if it is new
type ProjectRequest struct {
	planner.ManifestRequest
	Contents    map[string][]byte        `json:"-"`
	Permissions schema.UploadPermissions `json:"permissions"`
}

// CloneRequest describes a new version which reuses the files of an
// existing version
type CloneRequest struct {
	Expires     uint                     `json:"expires,omitempty"`
	Permissions schema.UploadPermissions `json:"permissions"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new upload manager.
func New(backend artifactdb.Backend, opts ...Opt) (*Manager, error) {
	if backend == nil {
		return nil, httpresponse.ErrBadRequest.Withf("backend is nil")
	}
	self := &Manager{backend: backend}

	// Apply options
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}

	// Check the session options
	if _, err := upload.NewPoller(backend, self.sessionOpts()...); err != nil {
		return nil, err
	}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Project uploads a new version of a project. The upload is aborted if the
// transfer or completion fails, and the error which caused the failure is
// returned.
func (manager *Manager) Project(ctx context.Context, project, version string, req ProjectRequest) (_ *schema.UploadResult, err error) {
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("Project"))
	defer func() { endFunc(err) }()

	// Plan the upload
	manifest, err := planner.NewManifest(req.ManifestRequest)
	if err != nil {
		return nil, err
	}
	session, err := upload.NewSession(manager.backend, project, version, manager.sessionOpts()...)
	if err != nil {
		return nil, err
	}

	// Start the upload, there is nothing to abort when this fails
	if err := session.Initialize(child, manifest); err != nil {
		return nil, err
	}

	// Transfer and complete
	manager.logger.DebugContext(child, "uploading", "project", project, "version", version, "files", manifest.Len())
	return session.Run(child, req.Contents, req.Permissions)
}

// Clone uploads a new version of a project which links to every file in an
// existing version, which may be in another project. Only the metadata
// documents are uploaded.
func (manager *Manager) Clone(ctx context.Context, srcProject, srcVersion, project, version string, req CloneRequest) (_ *schema.UploadResult, err error) {
	if srcVersion == "" {
		return nil, httpresponse.ErrBadRequest.Withf("missing version to clone from")
	}

	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("Clone"))
	defer func() { endFunc(err) }()

	// Fetch the metadata and remove the fields added by the server
	metadata, err := manager.backend.GetProjectMetadata(child, srcProject, srcVersion)
	if err != nil {
		return nil, err
	}
	raw := make([]schema.Metadata, 0, len(metadata))
	for _, doc := range metadata {
		raw = append(raw, doc.Raw())
	}

	// Plan the clone
	plan, err := planner.NewClonePlan(srcProject, srcVersion, raw)
	if err != nil {
		return nil, err
	}
	contents, err := plan.Contents()
	if err != nil {
		return nil, err
	}
	manifestReq := plan.ManifestRequest(contents)
	manifestReq.Expires = req.Expires

	manager.logger.DebugContext(child, "cloning", "from", srcProject+"@"+srcVersion, "links", len(plan.Links), "metadata", len(plan.Metadata))
	return manager.Project(child, project, version, ProjectRequest{
		ManifestRequest: manifestReq,
		Contents:        contents,
		Permissions:     req.Permissions,
	})
}

// Wait polls an indexing job until it succeeds or fails, or the poll timeout
// elapses. It can be used to resume waiting for an upload which was not
// indexed before the timeout.
func (manager *Manager) Wait(ctx context.Context, job schema.JobId) (*schema.UploadResult, error) {
	poller, err := upload.NewPoller(manager.backend, manager.sessionOpts()...)
	if err != nil {
		return nil, err
	}
	return poller.Wait(ctx, job)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func spanManagerName(op string) string {
	return schema.SchemaName + ".manager." + op
}
