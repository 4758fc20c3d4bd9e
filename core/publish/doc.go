// Package publish abstracts the versioned content store the catalog is
// published to.
//
// A Target addresses content by path and guards every overwrite with a
// revision token: Read returns the current revision, Write must present the
// revision it last observed (or none when creating a path known to be absent),
// and a stale revision fails with ErrConflict rather than a transport error.
//
// # Targets
//
//   - MinioTarget: S3/MinIO bucket; the object ETag is the revision token.
//   - GitHubTarget: repository contents API; the blob SHA is the revision token.
//   - Memory: in-process store used by tests and dry runs.
//
// # Errors
//
// Use errors.Is(err, publish.ErrNotFound) and errors.Is(err, publish.ErrConflict)
// to classify failures. Any other error is a transient store failure.
package publish
