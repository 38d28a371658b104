package core

import "context"

// Repository is the persistence port for the note collection.
// The core keeps the collection in memory. Adapters load it once at
// startup and write whole snapshots back.
type Repository interface {
	// Load returns the stored notes in file order. An absent store is an
	// empty collection, not an error.
	Load(ctx context.Context) ([]Note, error)

	// Save replaces the stored collection.
	Save(ctx context.Context, notes []Note) error
}

// Open loads the collection from repo into a new Store.
func Open(ctx context.Context, repo Repository) (*Store, error) {
	notes, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(notes...), nil
}
