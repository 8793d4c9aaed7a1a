package models

// Kind describes one catalog collection. Detail kinds point at the kind they
// augment and name the field that carries the parent reference.
type Kind struct {
	// Name is the route segment and the upload directory.
	Name       string
	Collection string
	// Label is used in user-facing messages.
	Label       string
	Parent      *Kind
	ParentField string
}

func (k *Kind) IsDetail() bool {
	return k.Parent != nil
}

var (
	Products = &Kind{Name: "products", Collection: "products", Label: "Product"}
	TShirts  = &Kind{Name: "tshirts", Collection: "tshirts", Label: "T-shirt"}
	Hoodies  = &Kind{Name: "hoodies", Collection: "hoodies", Label: "Hoodie"}
	Combos   = &Kind{Name: "combos", Collection: "combos", Label: "Combo"}

	TShirtDetails = &Kind{
		Name:        "tshirts_details",
		Collection:  "tshirts_details",
		Label:       "T-shirt detail",
		Parent:      TShirts,
		ParentField: "tshirt_id",
	}
	HoodieDetails = &Kind{
		Name:        "hoodies_details",
		Collection:  "hoodies_details",
		Label:       "Hoodie detail",
		Parent:      Hoodies,
		ParentField: "hoodie_id",
	}
	ComboDetails = &Kind{
		Name:        "combos_details",
		Collection:  "combos_details",
		Label:       "Combo detail",
		Parent:      Combos,
		ParentField: "combo_id",
	}
)

// Kinds lists parents before their details.
func Kinds() []*Kind {
	return []*Kind{Products, TShirts, Hoodies, Combos, TShirtDetails, HoodieDetails, ComboDetails}
}

func KindByName(name string) (*Kind, bool) {
	for _, k := range Kinds() {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// Children returns the detail kinds whose parent is k.
func (k *Kind) Children() []*Kind {
	var out []*Kind
	for _, c := range Kinds() {
		if c.Parent == k {
			out = append(out, c)
		}
	}
	return out
}
