package upload

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-artifactdb/pkg/schema"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	errgroup "golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Transfer creates every link and uploads the content of every file which
// has a presigned URL, with contents keyed by path. Every presigned path must
// have content, otherwise a ContentMissingError is returned before any
// request is made. Requests run concurrently and are not cancelled when
// another request fails; the first failure is returned as a TransferError.
func (s *Session) Transfer(ctx context.Context, contents map[string][]byte) (err error) {
	if err := s.enter(Transferring, Initialized); err != nil {
		return err
	}
	defer func() { s.leave(err) }()

	child, endFunc := otel.StartSpan(s.tracer, ctx, spanName("Transfer"))
	defer func() { endFunc(err) }()

	descriptor := s.Descriptor()
	for _, entry := range descriptor.PresignedUrls {
		if _, exists := contents[entry.Filename]; !exists {
			return &schema.ContentMissingError{Path: entry.Filename}
		}
	}

	var group errgroup.Group
	if s.concurrency > 0 {
		group.SetLimit(s.concurrency)
	}
	for _, link := range descriptor.Links {
		group.Go(func() error {
			if err := s.backend.CreateLink(child, link.Url); err != nil {
				s.logger.DebugContext(child, "link failed", "path", link.Filename, "error", err)
				return &schema.TransferError{Path: link.Filename, Link: true, Err: err}
			}
			return nil
		})
	}
	for _, entry := range descriptor.PresignedUrls {
		group.Go(func() error {
			if err := s.backend.PutPresigned(child, entry, contents[entry.Filename]); err != nil {
				s.logger.DebugContext(child, "upload failed", "path", entry.Filename, "error", err)
				return &schema.TransferError{Path: entry.Filename, Err: err}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	s.logger.DebugContext(child, "upload transferred", "project", s.project, "version", s.version)
	return nil
}
