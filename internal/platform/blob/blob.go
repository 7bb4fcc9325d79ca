// Package blob abstracts object storage for raw upload payloads.
package blob

import "context"

// Store is the minimal object-storage contract the application needs.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
