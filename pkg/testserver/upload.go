package testserver

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	uuid "github.com/google/uuid"
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	blob "gocloud.dev/blob"
	gcerrors "gocloud.dev/gcerrors"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type upload struct {
	project, version string
	expires          string
	presigned        map[string]string // path to hex checksum
	links            []uploadLink
	received         map[string]*file
	aborted          bool
	completed        bool
}

type uploadLink struct {
	path    string
	target  schema.ArtifactId
	created bool
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const presignExpires = 15 * time.Minute

////////////////////////////////////////////////////////////////////////////////
// HANDLERS

// POST /projects/{project}/version/{version}/upload
func (s *Server) uploadStart(w http.ResponseWriter, r *http.Request) {
	projectName, version := r.PathValue("project"), r.PathValue("version")
	if s.failStart != 0 {
		writeError(w, r, s.failStart, "failed to start upload for %s@%s", projectName, version)
		return
	}

	var req schema.UploadRequest
	if err := httprequest.Read(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: %v", err)
		return
	} else if req.Mode != schema.UploadMode {
		writeError(w, r, http.StatusBadRequest, "unsupported upload mode %q", req.Mode)
		return
	}

	s.Lock()
	defer s.Unlock()

	// A version can only be uploaded once
	if p, exists := s.projects[projectName]; exists {
		if _, exists := p.files[version]; exists {
			writeError(w, r, http.StatusConflict, "version %q of project %q already exists", version, projectName)
			return
		}
	}

	token := uuid.NewString()
	u := &upload{
		project:   projectName,
		version:   version,
		expires:   req.ExpiresIn,
		presigned: make(map[string]string),
		received:  make(map[string]*file),
	}
	response := schema.SessionDescriptor{
		PresignedUrls: []schema.PresignedUrl{},
		Links:         []schema.LinkUrl{},
		CompletionUrl: "/uploads/" + token + "/complete",
		AbortUrl:      "/uploads/" + token + "/abort",
	}
	latestVersion, latestFiles := s.latest(projectName)
	seen := make(map[string]struct{}, len(req.Filenames))
	for _, entry := range req.Filenames {
		if entry.Filename == "" {
			writeError(w, r, http.StatusBadRequest, "empty filename")
			return
		} else if _, exists := seen[entry.Filename]; exists {
			writeError(w, r, http.StatusBadRequest, "duplicate filename %q", entry.Filename)
			return
		}
		seen[entry.Filename] = struct{}{}

		// Determine whether the file is linked or uploaded
		var target *schema.ArtifactId
		switch entry.Check {
		case schema.Link:
			if entry.Values.ArtifactdbId == nil {
				writeError(w, r, http.StatusBadRequest, "missing link target for %q", entry.Filename)
				return
			} else if _, _, exists := s.lookup(*entry.Values.ArtifactdbId, true); !exists {
				writeError(w, r, http.StatusBadRequest, "link target %q for %q does not exist", entry.Values.ArtifactdbId, entry.Filename)
				return
			}
			target = entry.Values.ArtifactdbId
		case schema.Md5:
			id := schema.ArtifactId{Project: projectName, Path: entry.Filename, Version: latestVersion}
			if latestFiles != nil {
				if existing, _, ok := s.lookup(id, true); ok && strings.EqualFold(existing.md5, entry.Values.Md5sum) {
					target = &id
				}
			}
		case schema.Simple:
		default:
			writeError(w, r, http.StatusBadRequest, "unsupported check %q for %q", entry.Check, entry.Filename)
			return
		}

		// Links are created through the API, content through a presigned URL
		if target != nil {
			response.Links = append(response.Links, schema.LinkUrl{
				Filename: entry.Filename,
				Url:      "/uploads/" + token + "/links/" + strconv.Itoa(len(u.links)),
			})
			u.links = append(u.links, uploadLink{path: entry.Filename, target: *target})
			continue
		}
		checksum, err := hex.DecodeString(entry.Values.Md5sum)
		if err != nil || len(checksum) != 16 {
			writeError(w, r, http.StatusBadRequest, "invalid MD5 checksum for %q", entry.Filename)
			return
		}
		key := token + "/" + entry.Filename
		presigned, err := s.presign.PresignPutObject(r.Context(), &s3.PutObjectInput{
			Bucket: aws.String(bucketName),
			Key:    &key,
		}, s3.WithPresignExpires(presignExpires))
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "%v", err)
			return
		}
		u.presigned[entry.Filename] = entry.Values.Md5sum
		response.PresignedUrls = append(response.PresignedUrls, schema.PresignedUrl{
			Filename: entry.Filename,
			Url:      presigned.URL,
			Md5sum:   base64.StdEncoding.EncodeToString(checksum),
		})
	}
	s.uploads[token] = u

	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

// PUT /uploads/{token}/links/{index}
func (s *Server) uploadLink(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	u, exists := s.uploads[r.PathValue("token")]
	if !exists || u.aborted || u.completed {
		writeError(w, r, http.StatusNotFound, "upload not found")
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 || index >= len(u.links) {
		writeError(w, r, http.StatusNotFound, "link not found")
		return
	}
	link := &u.links[index]
	if code := s.fail(link.path); code != 0 {
		writeError(w, r, code, "failed to create link for %q", link.path)
		return
	}
	link.created = true
	writeOK(w, r)
}

// PUT /artifactdb/{key...}
func (s *Server) presignedPut(w http.ResponseWriter, r *http.Request) {
	// The signature authorizes the request, so other credentials are rejected
	if r.Header.Get("Authorization") != "" {
		writeError(w, r, http.StatusBadRequest, "only one authentication mechanism is allowed")
		return
	}
	query := r.URL.Query()
	if query.Get("X-Amz-Signature") == "" || query.Get("X-Amz-Credential") == "" {
		writeError(w, r, http.StatusForbidden, "missing request signature")
		return
	}
	if signed, err := time.Parse("20060102T150405Z", query.Get("X-Amz-Date")); err != nil {
		writeError(w, r, http.StatusForbidden, "invalid request date")
		return
	} else if expires, err := strconv.Atoi(query.Get("X-Amz-Expires")); err != nil || time.Since(signed) > time.Duration(expires)*time.Second {
		writeError(w, r, http.StatusForbidden, "request has expired")
		return
	}

	// Find the upload and the expected checksum
	key := r.PathValue("key")
	token, filename, _ := strings.Cut(key, "/")
	s.Lock()
	u, exists := s.uploads[token]
	var checksum string
	if exists && !u.aborted && !u.completed {
		checksum, exists = u.presigned[filename]
	}
	s.Unlock()
	if !exists {
		writeError(w, r, http.StatusNotFound, "no such upload")
		return
	} else if code := s.fail(filename); code != 0 {
		writeError(w, r, code, "failed to upload %q", filename)
		return
	}

	// The checksum header must match the manifest, and the content must match
	// the checksum
	expected, _ := hex.DecodeString(checksum)
	if header := r.Header.Get(schema.ContentMd5Header); header != base64.StdEncoding.EncodeToString(expected) {
		writeError(w, r, http.StatusBadRequest, "invalid %s header %q for %q", schema.ContentMd5Header, header, filename)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if err := s.write(r, key, contentType, expected); err != nil {
		if gcerrors.Code(err) == gcerrors.FailedPrecondition {
			writeError(w, r, http.StatusBadRequest, "content does not match checksum for %q", filename)
		} else {
			writeError(w, r, http.StatusInternalServerError, "%v", err)
		}
		return
	}

	s.Lock()
	u.received[filename] = &file{key: key, md5: checksum, contentType: contentType}
	s.Unlock()

	w.Header().Set("ETag", fmt.Sprintf("%q", checksum))
	w.WriteHeader(http.StatusOK)
}

// PUT /uploads/{token}/complete
func (s *Server) uploadComplete(w http.ResponseWriter, r *http.Request) {
	var req schema.CompleteRequest
	if err := httprequest.Read(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: %v", err)
		return
	} else if s.failComplete != 0 {
		writeError(w, r, s.failComplete, "failed to complete upload")
		return
	}

	s.Lock()
	defer s.Unlock()

	token := r.PathValue("token")
	u, exists := s.uploads[token]
	if !exists || u.aborted || u.completed {
		writeError(w, r, http.StatusNotFound, "upload not found")
		return
	}

	// Every file must have been uploaded or linked
	files := make(map[string]*file, len(u.presigned)+len(u.links))
	for filename := range u.presigned {
		f, exists := u.received[filename]
		if !exists {
			writeError(w, r, http.StatusBadRequest, "file %q has not been uploaded", filename)
			return
		}
		files[filename] = f
	}
	for _, link := range u.links {
		if !link.created {
			writeError(w, r, http.StatusBadRequest, "link for %q has not been created", link.path)
			return
		}
		files[link.path] = &file{link: &link.target}
	}
	u.completed = true

	// Indexing happens when the job reports success
	id := uuid.NewString()
	s.jobs[id] = &job{
		upload:      u,
		files:       files,
		permissions: schema.UploadPermissions{Private: req.ReadAccess != "" && req.ReadAccess != schema.ReadAccessPublic, Viewers: req.Viewers, Owners: req.Owners},
	}
	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.CompleteResponse{JobId: schema.JobId(id)})
}

// PUT /uploads/{token}/abort
func (s *Server) uploadAbort(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	s.aborts++
	token := r.PathValue("token")
	u, exists := s.uploads[token]
	if s.failAbort != 0 {
		s.Unlock()
		writeError(w, r, s.failAbort, "failed to abort upload")
		return
	} else if !exists || u.completed {
		s.Unlock()
		writeError(w, r, http.StatusNotFound, "upload not found")
		return
	}
	u.aborted = true
	received := make([]string, 0, len(u.received))
	for _, f := range u.received {
		received = append(received, f.key)
	}
	s.Unlock()

	// Remove any uploaded content
	for _, key := range received {
		s.bucket.Delete(r.Context(), key)
	}
	writeOK(w, r)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// write copies the request body to the bucket, which fails with a
// FailedPrecondition error when the content does not match the checksum
func (s *Server) write(r *http.Request, key, contentType string, checksum []byte) error {
	w, err := s.bucket.NewWriter(r.Context(), key, &blob.WriterOptions{
		ContentType: contentType,
		ContentMD5:  checksum,
	})
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r.Body); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
