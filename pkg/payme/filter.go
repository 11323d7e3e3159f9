package payme

import (
	"fmt"
	"net/url"
)

// filter is the query contract of the PayMe list endpoints: a single
// "filter" parameter carrying {"where":{...}} plus an optional "include"
// list of relations, with lte/gt operators for numeric bounds and bare
// values for equality.
type filter struct {
	Where   map[string]any `json:"where"`
	Include []string       `json:"include,omitempty"`
}

func (f filter) values() (url.Values, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding filter: %w", err)
	}
	return url.Values{"filter": []string{string(raw)}}, nil
}

func whereReference(reference string) filter {
	return filter{Where: map[string]any{"reference": reference}}
}

// whereAmountBand selects fee rules whose [min_amount, max_amount) band
// contains amount.
func whereAmountBand(amount float64) filter {
	return filter{Where: map[string]any{
		"min_amount": map[string]any{"lte": amount},
		"max_amount": map[string]any{"gt": amount},
	}}
}
