package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// ListKey derives the cache key for a filtered list of a resource.
// The query parameters are canonicalized (keys sorted by the JSON
// encoder, multi-values sorted) before hashing, so parameter sets that
// are equal as sets produce the same key regardless of their order in
// the URL.
func ListKey(resource string, params url.Values) string {
	return fmt.Sprintf("%s_list_%s", resource, hashParams(params))
}

// OwnerListKey derives the list key for resources whose lists are
// scoped to the requesting owner. The owner id is part of the key, so
// two owners issuing the same query never share an entry.
func OwnerListKey(resource string, ownerID uint, params url.Values) string {
	return fmt.Sprintf("%s_list_%d_%s", resource, ownerID, hashParams(params))
}

// DetailKey derives the cache key for a single resource instance.
func DetailKey(resource string, id uint) string {
	return fmt.Sprintf("%s_detail_%d", resource, id)
}

// ListPattern matches every list key of a resource, whatever its
// owner or query-parameter hash.
func ListPattern(resource string) string {
	return resource + "_list_*"
}

func hashParams(params url.Values) string {
	// Values stay a JSON array rather than a joined string, so a
	// literal separator inside one value cannot collide with two
	// separate values.
	canonical := make(map[string][]string, len(params))
	for key, values := range params {
		sorted := make([]string, len(values))
		copy(sorted, values)
		sort.Strings(sorted)
		canonical[key] = sorted
	}

	// json.Marshal sorts map keys, which gives the canonical form.
	data, err := json.Marshal(canonical)
	if err != nil {
		data = []byte(params.Encode())
	}

	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
