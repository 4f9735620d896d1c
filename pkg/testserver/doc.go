// Package testserver implements an in-memory ArtifactDB API for tests.
//
// The server supports the upload protocol (including MD5 deduplication
// against the latest version of a project, link creation and presigned
// content uploads), scripted indexing jobs, paginated metadata, project and
// version listing, permissions and file downloads. Presigned URLs are S3
// signature version 4 URLs which point back to the server, and content is
// kept in a memory blob bucket which verifies the Content-Md5 header.
//
//	srv, err := testserver.New(ctx, testserver.WithJobStatus(schema.JobPending, schema.JobSuccess))
//	if err != nil {
//	   panic(err)
//	}
//	defer srv.Close()
package testserver
