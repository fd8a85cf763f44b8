// Package cloudwriter buffers objects in memory and uploads them to cloud
// storage when they are closed.
package cloudwriter

import "io"

// CloudWriter is one object being written. Nothing is visible in the bucket
// until Close returns nil.
type CloudWriter interface {
	io.WriteCloser
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
