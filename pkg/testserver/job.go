package testserver

import (
	"net/http"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// job indexes a completed upload. The version is committed when the job
// reports success.
type job struct {
	upload      *upload
	files       map[string]*file
	permissions schema.UploadPermissions
	polls       int
	state       schema.JobState
}

////////////////////////////////////////////////////////////////////////////////
// HANDLERS

// GET /jobs/{id}
func (s *Server) jobGet(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	id := r.PathValue("id")
	j, exists := s.jobs[id]
	if !exists {
		writeError(w, r, http.StatusNotFound, "job %q not found", id)
		return
	}

	// Advance the script, repeating the last state, until the job is terminal
	if !j.state.Terminal() {
		j.state = s.jobStatus[min(j.polls, len(s.jobStatus)-1)]
		j.polls++
		if j.state == schema.JobSuccess {
			if err := s.commit(j.upload.project, j.upload.version, j.files, j.permissions); err != nil {
				j.state = schema.JobFailure
			}
		}
	}

	httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.JobStatus{
		JobId:  schema.JobId(id),
		Status: j.state,
	})
}
