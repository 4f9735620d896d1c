/*
Package upload implements the upload of a new project version: a Session
moves through initialization, transfer of content and links, and completion,
after which a Poller waits for the server to index the version. Run wraps
transfer and completion and aborts the upload when either fails.
*/
package upload
