package testserver

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// HANDLERS

// GET /projects
func (s *Server) projectList(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	names := slices.Sorted(maps.Keys(s.projects))
	start, end, ok := s.page(w, r, len(names))
	if !ok {
		return
	}
	response := make([]schema.ProjectAgg, 0, end-start)
	for _, name := range names[start:end] {
		agg := schema.ProjectAgg{ProjectId: name}
		for _, version := range s.projects[name].versions {
			agg.Agg = append(agg.Agg, schema.VersionAgg{Version: version})
		}
		response = append(response, agg)
	}
	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

// GET /projects/{project}/versions
func (s *Server) versionList(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	name := r.PathValue("project")
	p, exists := s.projects[name]
	if !exists || len(p.versions) == 0 {
		writeError(w, r, http.StatusNotFound, "project %q not found", name)
		return
	}
	response := schema.VersionsResponse{
		Aggs:   make([]schema.VersionAgg, 0, len(p.versions)),
		Latest: schema.VersionAgg{Version: p.versions[len(p.versions)-1]},
	}
	for _, version := range p.versions {
		response.Aggs = append(response.Aggs, schema.VersionAgg{Version: version})
	}
	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

// GET /projects/{project}/metadata
// GET /projects/{project}/version/{version}/metadata
func (s *Server) metadataList(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	name := r.PathValue("project")
	p, exists := s.projects[name]
	if !exists {
		writeError(w, r, http.StatusNotFound, "project %q not found", name)
		return
	}
	versions := p.versions
	if version := r.PathValue("version"); version != "" {
		if _, exists := p.files[version]; !exists {
			writeError(w, r, http.StatusNotFound, "version %q of project %q not found", version, name)
			return
		}
		versions = []string{version}
	}

	// Documents are ordered by version, then by path
	var results []schema.Metadata
	for _, version := range versions {
		docs, err := s.metadata(r.Context(), name, version)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "%v", err)
			return
		}
		for _, path := range slices.Sorted(maps.Keys(docs)) {
			results = append(results, docs[path])
		}
	}

	start, end, ok := s.page(w, r, len(results))
	if !ok {
		return
	}
	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.MetadataList{
		Results: append([]schema.Metadata{}, results[start:end]...),
	})
}

// GET /projects/{project}/permissions
func (s *Server) permissionsGet(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	name := r.PathValue("project")
	p, exists := s.projects[name]
	if !exists {
		writeError(w, r, http.StatusNotFound, "project %q not found", name)
		return
	}
	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), p.permissions)
}

// PUT /projects/{project}/permissions
func (s *Server) permissionsPut(w http.ResponseWriter, r *http.Request) {
	var req schema.PermissionsRequest
	if err := httprequest.Read(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	s.Lock()
	defer s.Unlock()

	name := r.PathValue("project")
	p, exists := s.projects[name]
	if !exists {
		writeError(w, r, http.StatusNotFound, "project %q not found", name)
		return
	}
	switch req.ReadAccess {
	case "":
		// Unchanged
	case schema.ReadAccessPublic, schema.ReadAccessViewers, schema.ReadAccessOwners, schema.ReadAccessNone:
		p.permissions.ReadAccess = req.ReadAccess
	default:
		writeError(w, r, http.StatusBadRequest, "invalid read access %q", req.ReadAccess)
		return
	}
	if req.Viewers != nil {
		p.permissions.Viewers = slices.Clone(*req.Viewers)
	}
	if req.Owners != nil {
		p.permissions.Owners = slices.Clone(*req.Owners)
	}
	writeOK(w, r)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// page returns the range of entries for the page requested by the "start"
// query parameter, and sets the Link header when there are more entries
func (s *Server) page(w http.ResponseWriter, r *http.Request, count int) (int, int, bool) {
	start := 0
	if value := r.URL.Query().Get("start"); value != "" {
		if n, err := strconv.Atoi(value); err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid start %q", value)
			return 0, 0, false
		} else {
			start = min(n, count)
		}
	}
	end := min(start+s.pageSize, count)
	if end < count {
		query := url.Values{}
		query.Set("start", strconv.Itoa(end))
		more := url.URL{Path: r.URL.Path, RawQuery: query.Encode()}
		w.Header().Set(schema.LinkHeader, "<"+more.String()+`>; rel="more"`)
	}
	return start, end, true
}
