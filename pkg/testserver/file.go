package testserver

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const metadataSuffix = "/metadata"

////////////////////////////////////////////////////////////////////////////////
// HANDLERS

// GET /files/{id}
// GET /files/{id}/metadata
func (s *Server) fileGet(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("id")
	isMetadata := strings.HasSuffix(value, metadataSuffix)
	if isMetadata {
		value = strings.TrimSuffix(value, metadataSuffix)
	}
	id, err := schema.ParseArtifactId(value)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "%v", err)
		return
	}
	if isMetadata {
		s.fileMetadata(w, r, id)
	} else {
		s.fileContent(w, r, id)
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Server) fileMetadata(w http.ResponseWriter, r *http.Request, id schema.ArtifactId) {
	follow, _ := strconv.ParseBool(r.URL.Query().Get("follow_link"))

	s.Lock()
	defer s.Unlock()

	_, target, exists := s.lookup(id, follow)
	if !exists {
		writeError(w, r, http.StatusNotFound, "artifact %q not found", id)
		return
	}
	docs, err := s.metadata(r.Context(), target.Project, target.Version)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "%v", err)
		return
	}
	doc, exists := docs[target.Path]
	if !exists {
		writeError(w, r, http.StatusNotFound, "no metadata for artifact %q", target)
		return
	}
	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), doc)
}

func (s *Server) fileContent(w http.ResponseWriter, r *http.Request, id schema.ArtifactId) {
	s.Lock()
	f, _, exists := s.lookup(id, true)
	s.Unlock()
	if !exists {
		writeError(w, r, http.StatusNotFound, "artifact %q not found", id)
		return
	}

	reader, err := s.bucket.NewReader(r.Context(), f.key, nil)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "%v", err)
		return
	}
	defer reader.Close()

	contentType := f.contentType
	if contentType == "" {
		contentType = types.ContentTypeBinary
	}
	w.Header().Set(types.ContentTypeHeader, contentType)
	w.Header().Set(types.ContentLengthHeader, strconv.FormatInt(reader.Size(), 10))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, reader)
}
