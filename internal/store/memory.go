package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps collections in process. Documents are copied through BSON on
// the way in and out so callers never share maps with the store.
type Memory struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memoryCollection)}
}

func (m *Memory) Collection(name string) Collection {
	return m.collection(name)
}

func (m *Memory) collection(name string) *memoryCollection {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[name]
	if !ok {
		c = &memoryCollection{}
		m.collections[name] = c
	}
	return c
}

func (m *Memory) EnsureUnique(_ context.Context, collection, field string) error {
	c := m.collection(collection)
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make([]any, 0, len(c.docs))
	for _, doc := range c.docs {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for _, s := range seen {
			if reflect.DeepEqual(s, v) {
				return fmt.Errorf("%w: %s.%s has duplicate values", ErrDuplicateKey, collection, field)
			}
		}
		seen = append(seen, v)
	}
	for _, f := range c.unique {
		if f == field {
			return nil
		}
	}
	c.unique = append(c.unique, field)
	return nil
}

// EnsureIndex is a no-op: the memory store always scans.
func (m *Memory) EnsureIndex(context.Context, string, string) error { return nil }

type memoryCollection struct {
	mu     sync.RWMutex
	docs   []bson.M
	unique []string
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	stored, err := copyDoc(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := stored["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		stored["_id"] = id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(bson.M{"_id": id}) >= 0 {
		return primitive.NilObjectID, fmt.Errorf("%w: _id %s", ErrDuplicateKey, id.Hex())
	}
	if err := c.checkUnique(stored, -1); err != nil {
		return primitive.NilObjectID, err
	}
	c.docs = append(c.docs, stored)
	return id, nil
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(filter)
	if i < 0 {
		return nil, ErrNoDocument
	}
	return copyDoc(c.docs[i])
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]bson.M, 0)
	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		cp, err := copyDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter, set bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(set) == 0 {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.indexOf(filter) < 0 {
			return 0, nil
		}
		return 1, nil
	}
	patch, err := copyDoc(set)
	if err != nil {
		return 0, err
	}
	if _, ok := patch["_id"]; ok {
		return 0, fmt.Errorf("store: _id is immutable")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(filter)
	if i < 0 {
		return 0, nil
	}
	updated := make(bson.M, len(c.docs[i])+len(patch))
	for k, v := range c.docs[i] {
		updated[k] = v
	}
	for k, v := range patch {
		updated[k] = v
	}
	if err := c.checkUnique(updated, i); err != nil {
		return 0, err
	}
	c.docs[i] = updated
	return 1, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(filter)
	if i < 0 {
		return 0, nil
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return 1, nil
}

func (c *memoryCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.docs[:0]
	var n int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			n++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return n, nil
}

// indexOf must be called with c.mu held.
func (c *memoryCollection) indexOf(filter bson.M) int {
	for i, doc := range c.docs {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

// checkUnique must be called with c.mu held. skip is the position of the
// document being replaced, or -1 for an insert.
func (c *memoryCollection) checkUnique(doc bson.M, skip int) error {
	for _, field := range c.unique {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if ov, ok := other[field]; ok && reflect.DeepEqual(ov, v) {
				return fmt.Errorf("%w: %s=%v", ErrDuplicateKey, field, v)
			}
		}
	}
	return nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func copyDoc(doc bson.M) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("store: decode document: %w", err)
	}
	return out, nil
}
