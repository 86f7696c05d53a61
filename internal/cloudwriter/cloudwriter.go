// Package cloudwriter uploads export snapshots to object storage.
package cloudwriter

import "context"

// CloudWriter buffers one object and uploads it on Close.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close(ctx context.Context) error
}

// CloudWriterFactory creates writers bound to a bucket and object key.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
