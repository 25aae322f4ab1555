package document

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// HashContent computes the xxhash of v's canonical JSON encoding. It backs
// AgentContribution.InputHash/OutputHash: two calls with structurally-equal
// values always produce the same hash, regardless of map key iteration
// order, since encoding/json sorts map keys.
func HashContent(v any) uint64 {
	data, err := json.Marshal(v)
	if err != nil {
		// Marshaling our own value types cannot fail; treat it as
		// programmer error surfaced via a distinguishable sentinel hash
		// rather than panicking mid-pipeline.
		return 0
	}
	return xxhash.Sum64(data)
}
