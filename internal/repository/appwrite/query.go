package appwrite

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

// encodeQueries renders queries in the JSON form accepted as queries[].
func encodeQueries(queries []model.Query) (url.Values, error) {
	values := url.Values{}
	for _, q := range queries {
		raw, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query %s: %w", q.Method, err)
		}
		values.Add("queries[]", string(raw))
	}
	return values, nil
}
