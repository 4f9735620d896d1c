package testserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	config "github.com/aws/aws-sdk-go-v2/config"
	credentials "github.com/aws/aws-sdk-go-v2/credentials"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	blob "gocloud.dev/blob"
	memblob "gocloud.dev/blob/memblob"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Server is an in-memory ArtifactDB API served over HTTP
type Server struct {
	*httptest.Server
	opts
	bucket  *blob.Bucket
	presign *s3.PresignClient

	sync.Mutex
	projects map[string]*project
	uploads  map[string]*upload
	jobs     map[string]*job
	requests []Request
	aborts   int
}

// Request is a request received by the server
type Request struct {
	Method        string
	Path          string
	Authorization string
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New starts a server, which should be closed when no longer needed
func New(ctx context.Context, opts ...Opt) (*Server, error) {
	self := new(Server)
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}
	self.projects = make(map[string]*project)
	self.uploads = make(map[string]*upload)
	self.jobs = make(map[string]*job)
	self.bucket = memblob.OpenBucket(nil)

	// Register handlers and start serving
	mux := http.NewServeMux()
	self.register(mux)
	self.Server = httptest.NewServer(self.middleware(mux))

	// Presigned URLs point back at this server, with the bucket in the path
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(defaultRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("testserver", "testserver", "")),
		config.WithSharedConfigFiles([]string{}),
		config.WithSharedCredentialsFiles([]string{}),
	)
	if err != nil {
		self.Server.Close()
		return nil, errors.Join(err, self.bucket.Close())
	}
	self.presign = s3.NewPresignClient(s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(self.URL)
		o.UsePathStyle = true
	}))

	// Return success
	return self, nil
}

// Close the server and release the bucket
func (s *Server) Close() error {
	s.Server.Close()
	return s.bucket.Close()
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Requests returns the requests received by the server, in order
func (s *Server) Requests() []Request {
	s.Lock()
	defer s.Unlock()
	result := make([]Request, len(s.requests))
	copy(result, s.requests)
	return result
}

// Aborts returns the number of abort requests received
func (s *Server) Aborts() int {
	s.Lock()
	defer s.Unlock()
	return s.aborts
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Server) register(mux *http.ServeMux) {
	// Uploads
	mux.HandleFunc("POST /projects/{project}/version/{version}/upload", s.uploadStart)
	mux.HandleFunc("PUT /uploads/{token}/links/{index}", s.uploadLink)
	mux.HandleFunc("PUT /uploads/{token}/complete", s.uploadComplete)
	mux.HandleFunc("PUT /uploads/{token}/abort", s.uploadAbort)
	mux.HandleFunc("PUT /"+bucketName+"/{key...}", s.presignedPut)
	mux.HandleFunc("GET /jobs/{id}", s.jobGet)

	// Projects
	mux.HandleFunc("GET /projects", s.projectList)
	mux.HandleFunc("GET /projects/{project}/versions", s.versionList)
	mux.HandleFunc("GET /projects/{project}/metadata", s.metadataList)
	mux.HandleFunc("GET /projects/{project}/version/{version}/metadata", s.metadataList)
	mux.HandleFunc("GET /projects/{project}/permissions", s.permissionsGet)
	mux.HandleFunc("PUT /projects/{project}/permissions", s.permissionsPut)

	// Files
	mux.HandleFunc("GET /files/{id...}", s.fileGet)
}

// middleware records every request, and checks the bearer token on write
// requests other than presigned uploads
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		s.Unlock()

		if s.token != "" && r.Method != http.MethodGet && !isPresigned(r) {
			if r.Header.Get("Authorization") != "Bearer "+s.token {
				writeError(w, r, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isPresigned(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/"+bucketName+"/")
}

// fail returns the injected failure status for a path, or zero
func (s *Server) fail(path string) int {
	return s.failPath[path]
}
