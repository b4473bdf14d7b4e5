package sequence

import (
	"context"
	"encoding/binary"

	"github.com/ipfs/go-datastore"
)

// Sequence allocates monotonically increasing identifiers, persisting the
// high water mark to a datastore as it advances. Identifiers start at 1
// and are never reused or decremented.
type Sequence struct {
	ds   datastore.Batching
	name datastore.Key
}

// New returns a Sequence persisted under the given key
func New(ds datastore.Batching, name datastore.Key) *Sequence {
	return &Sequence{ds: ds, name: name}
}

// Next allocates the next identifier, updating the stored high water mark
// in the process. The first allocation returns 1.
func (s *Sequence) Next(ctx context.Context) (uint64, error) {
	has, err := s.ds.Has(ctx, s.name)
	if err != nil {
		return 0, err
	}

	next := uint64(1)
	if has {
		curBytes, err := s.ds.Get(ctx, s.name)
		if err != nil {
			return 0, err
		}
		cur, _ := binary.Uvarint(curBytes)
		next = cur + 1
	}
	buf := make([]byte, binary.MaxVarintLen64)
	size := binary.PutUvarint(buf, next)

	return next, s.ds.Put(ctx, s.name, buf[:size])
}
