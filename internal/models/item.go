package models

import "encoding/json"

// Item is a catalog entry of any kind as it appears on the wire.
type Item struct {
	ID       string
	Name     string
	Price    float64
	ImageURL string
	// ParentID is set for detail kinds only.
	ParentID string
	Kind     *Kind
}

// MarshalJSON renders the parent reference under the kind's own field name,
// e.g. "tshirt_id" for t-shirt details.
func (i Item) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":        i.ID,
		"name":      i.Name,
		"price":     i.Price,
		"image_url": i.ImageURL,
	}
	if i.Kind != nil && i.Kind.IsDetail() {
		out[i.Kind.ParentField] = i.ParentID
	}
	return json.Marshal(out)
}
