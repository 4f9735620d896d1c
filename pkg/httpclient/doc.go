// Package httpclient provides a typed Go client for consuming the ArtifactDB
// REST API.
//
// Create a client with:
//
//	client, err := httpclient.New("https://artifactdb.example.com/api")
//	if err != nil {
//	   panic(err)
//	}
//
// Requests are anonymous unless credentials are attached. Credentials are
// immutable, so clients with different credentials can be used concurrently:
//
//	client = client.WithCredentials(httpclient.Bearer(token))
//
// Then use the client to read from the API:
//
//	// List the versions of a project
//	versions, err := client.ListProjectVersions(ctx, "test-public")
//
// Uploads are driven by the upload package, which uses the client as its
// backend.
package httpclient
