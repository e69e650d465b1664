package repository

import (
	"strings"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// IDSeparator joins ancestor ids and the leaf id into one compound id.
// Ids are not escaped: an ancestor id containing the separator is a caller
// contract violation and makes decoding ambiguous.
const IDSeparator = "_"

// EncodeID builds the compound id for a document from its ancestor ids
// (root→leaf order) and its leaf id.
func EncodeID(ancestorIDs []string, leafID string) string {
	if len(ancestorIDs) == 0 {
		return leafID
	}
	return strings.Join(ancestorIDs, IDSeparator) + IDSeparator + leafID
}

// DecodeID splits a compound id for a template with ancestorCount ancestor
// levels. The first ancestorCount tokens are the ancestor ids in root→leaf
// order; the remainder is the leaf id. Fewer than ancestorCount+1 tokens
// fail with MALFORMED_ID.
func DecodeID(id string, ancestorCount int) ([]string, string, error) {
	if ancestorCount == 0 {
		if id == "" {
			return nil, "", errors.NewMalformedID(id, 1)
		}
		return nil, id, nil
	}
	tokens := strings.Split(id, IDSeparator)
	if len(tokens) < ancestorCount+1 {
		return nil, "", errors.NewMalformedID(id, ancestorCount+1)
	}
	for _, token := range tokens {
		if token == "" {
			return nil, "", errors.NewMalformedID(id, ancestorCount+1)
		}
	}
	ancestors := tokens[:ancestorCount]
	leaf := strings.Join(tokens[ancestorCount:], IDSeparator)
	return ancestors, leaf, nil
}
