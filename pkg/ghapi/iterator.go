package ghapi

import (
	"context"
	"errors"
)

// ErrNoMoreItems is returned by Iterator.Next past the last item.
var ErrNoMoreItems = errors.New("no more items")

// Iterator walks a collection in index order, loading pages on demand.
type Iterator struct {
	ctx   context.Context
	coll  *Collection
	index int
	err   error
}

// Iterator returns an iterator positioned before the first item.
func (c *Collection) Iterator(ctx context.Context) *Iterator {
	return &Iterator{ctx: ctx, coll: c, index: -1}
}

// HasNext reports whether another item is available. It returns false
// once an error has occurred; see Err.
func (it *Iterator) HasNext() bool {
	if it.err != nil {
		return false
	}

	ok, err := it.coll.Contains(it.ctx, it.index+1)
	if err != nil {
		it.err = err

		return false
	}

	return ok
}

// Next advances to and returns the next item.
func (it *Iterator) Next() (*Entity, error) {
	if it.err != nil {
		return nil, it.err
	}

	if !it.HasNext() {
		if it.err != nil {
			return nil, it.err
		}

		return nil, ErrNoMoreItems
	}

	it.index++

	entity, err := it.coll.Get(it.ctx, it.index)
	if err != nil {
		it.err = err

		return nil, err
	}

	return entity, nil
}

// Index returns the position of the item last returned by Next, or -1.
func (it *Iterator) Index() int {
	return it.index
}

// Err returns the first error encountered.
func (it *Iterator) Err() error {
	return it.err
}
