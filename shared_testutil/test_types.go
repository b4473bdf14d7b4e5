package shared_testutil

import (
	"fmt"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"
)

// NewIDAddr returns an ID address for the given id
func NewIDAddr(t *testing.T, id uint64) address.Address {
	addr, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return addr
}

// MakeCid hashes the given data into a raw v1 cid
func MakeCid(t *testing.T, data []byte) cid.Cid {
	h, err := multihash.Sum(data, multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, h)
}

// GenerateCids produces n distinct cids
func GenerateCids(t *testing.T, n int) []cid.Cid {
	cids := make([]cid.Cid, 0, n)
	for i := 0; i < n; i++ {
		cids = append(cids, MakeCid(t, []byte(fmt.Sprintf("payload-%d", i))))
	}
	return cids
}

// MakeKeyHash produces a 32 byte hash-shaped value from a seed string
func MakeKeyHash(t *testing.T, seed string) []byte {
	h, err := multihash.Sum([]byte(seed), multihash.SHA2_256, -1)
	require.NoError(t, err)
	decoded, err := multihash.Decode(h)
	require.NoError(t, err)
	return decoded.Digest
}
