package repository

import (
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/store"
)

// Catalog holds one ItemRepository per kind, with detail kinds linked to
// their parents.
type Catalog struct {
	items map[*models.Kind]*ItemRepository
}

func NewCatalog(db store.Database, images ImageStore) *Catalog {
	c := &Catalog{items: make(map[*models.Kind]*ItemRepository)}
	for _, k := range models.Kinds() {
		c.items[k] = &ItemRepository{
			kind:       k,
			collection: db.Collection(k.Collection),
			images:     images,
		}
	}
	for _, k := range models.Kinds() {
		if !k.IsDetail() {
			continue
		}
		child, parent := c.items[k], c.items[k.Parent]
		child.parent = parent
		parent.children = append(parent.children, child)
	}
	return c
}

// Items panics for a kind that is not part of models.Kinds.
func (c *Catalog) Items(k *models.Kind) *ItemRepository {
	r, ok := c.items[k]
	if !ok {
		panic("repository: unknown kind " + k.Name)
	}
	return r
}
