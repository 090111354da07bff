// Package store provides durable document storage for agent memory,
// keyed by session. Documents are opaque bytes to the store; the agent
// owns the format.
package store

// Store is the persistence boundary. A missing session is not an
// error: Load reports found=false and the agent starts fresh.
type Store interface {
	Load(session string) (doc []byte, found bool, err error)
	Save(session string, doc []byte) error
}
