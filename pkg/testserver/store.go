package testserver

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"path"
	"slices"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	blob "gocloud.dev/blob"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type project struct {
	versions    []string // in order of creation, the last is the latest
	files       map[string]map[string]*file
	permissions schema.Permissions
}

// file is either content in the bucket, or a link to another artifact
type file struct {
	key         string
	md5         string // hex
	contentType string
	link        *schema.ArtifactId
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Seed creates a version of a project from file contents, as if it had been
// uploaded and indexed. Metadata documents are the files whose path ends in
// ".json".
func (s *Server) Seed(ctx context.Context, projectName, version string, contents map[string][]byte) error {
	files := make(map[string]*file, len(contents))
	for _, filename := range slices.Sorted(maps.Keys(contents)) {
		key := path.Join("seed", projectName, version, filename)
		sum := md5.Sum(contents[filename])
		contentType := schema.ContentTypeFor(filename)
		if err := s.bucket.WriteAll(ctx, key, contents[filename], &blob.WriterOptions{
			ContentType: contentType,
			ContentMD5:  sum[:],
		}); err != nil {
			return err
		}
		files[filename] = &file{key: key, md5: hex.EncodeToString(sum[:]), contentType: contentType}
	}

	s.Lock()
	defer s.Unlock()
	return s.commit(projectName, version, files, schema.UploadPermissions{})
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// commit adds a version to a project, creating the project with the
// permissions if it does not exist. The caller holds the lock.
func (s *Server) commit(projectName, version string, files map[string]*file, permissions schema.UploadPermissions) error {
	p, exists := s.projects[projectName]
	if !exists {
		req := permissions.CompleteRequest()
		p = &project{
			files: make(map[string]map[string]*file),
			permissions: schema.Permissions{
				Scope:       "project",
				ReadAccess:  req.ReadAccess,
				WriteAccess: schema.ReadAccessOwners,
				Viewers:     req.Viewers,
				Owners:      req.Owners,
			},
		}
		s.projects[projectName] = p
	}
	if _, exists := p.files[version]; exists {
		return fmt.Errorf("version %q of project %q already exists", version, projectName)
	}
	p.files[version] = files
	p.versions = append(p.versions, version)
	return nil
}

// latest returns the files in the latest version of a project, or nil.
// The caller holds the lock.
func (s *Server) latest(projectName string) (string, map[string]*file) {
	p, exists := s.projects[projectName]
	if !exists || len(p.versions) == 0 {
		return "", nil
	}
	version := p.versions[len(p.versions)-1]
	return version, p.files[version]
}

// lookup returns a file, following links when follow is true. The caller
// holds the lock.
func (s *Server) lookup(id schema.ArtifactId, follow bool) (*file, schema.ArtifactId, bool) {
	for range 16 {
		p, exists := s.projects[id.Project]
		if !exists {
			return nil, id, false
		}
		f, exists := p.files[id.Version][id.Path]
		if !exists {
			return nil, id, false
		} else if f.link == nil || !follow {
			return f, id, true
		}
		id = *f.link
	}
	return nil, id, false
}

// metadata returns the enriched metadata documents of a version, keyed by
// the path of the artifact they describe. The caller holds the lock.
func (s *Server) metadata(ctx context.Context, projectName, version string) (map[string]schema.Metadata, error) {
	p, exists := s.projects[projectName]
	if !exists {
		return nil, nil
	}
	result := make(map[string]schema.Metadata)
	for filename, f := range p.files[version] {
		if !schema.IsMetadataPath(filename) || f.link != nil {
			continue
		}
		data, err := s.bucket.ReadAll(ctx, f.key)
		if err != nil {
			return nil, err
		}
		var doc schema.Metadata
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			continue
		}
		if doc.Path() == "" {
			doc[schema.PathField] = filename
		}
		id := schema.ArtifactId{Project: projectName, Path: doc.Path(), Version: version}
		extra := map[string]any{
			"id":            id.String(),
			"project_id":    projectName,
			"version":       version,
			"metadata_path": filename,
		}
		if target, exists := p.files[version][doc.Path()]; exists && target.link != nil {
			extra["link"] = map[string]any{"artifactdb": target.link.String()}
		}
		doc[schema.ExtraField] = extra
		result[doc.Path()] = doc
	}
	return result, nil
}
