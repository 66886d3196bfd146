package backend

import (
	"encoding/json"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/catalog"
)

// ToRow flattens a record or patch into a column map via its JSON form.
// Maps go through the same round trip so pointers and named types inside
// them become plain JSON scalars.
func ToRow(v interface{}) (catalog.Row, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var row catalog.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}

// Decode copies src into dest through JSON. A nil dest is a no-op.
func Decode(src interface{}, dest interface{}) error {
	if dest == nil {
		return nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
