package repository

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"apparel-catalog/internal/logger"
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/storage"
	"apparel-catalog/internal/store"
)

//go:generate mockgen -source=item_repository.go -destination=mock_image_store_test.go -package=repository

// ImageStore is the part of storage.Images the repositories depend on.
type ImageStore interface {
	Accepts(filename string) bool
	Save(ctx context.Context, kind, filename string, body io.Reader) (*storage.Image, error)
	Remove(ctx context.Context, kind, name string) error
	NameFromURL(kind, url string) (string, bool)
}

// Upload is an image attached to a create or update.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Fields carries wire-level values keyed by field name. Absent keys are
// left untouched by Update.
type Fields map[string]any

// ParentAlias is accepted in place of a detail kind's own parent field.
const ParentAlias = "parent_id"

const msgMissingFields = "Missing required fields"

// ItemRepository stores one catalog kind.
type ItemRepository struct {
	kind       *models.Kind
	collection store.Collection
	images     ImageStore
	parent     *ItemRepository
	children   []*ItemRepository
}

func (r *ItemRepository) Kind() *models.Kind { return r.kind }

// Create validates f, stores img when given and inserts the document. The
// saved image is removed again if the insert fails.
func (r *ItemRepository) Create(ctx context.Context, f Fields, img *Upload) (*models.Item, error) {
	name, _ := f["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", msgMissingFields)
	}
	rawPrice, ok := f["price"]
	if !ok || rawPrice == nil || rawPrice == "" {
		return nil, invalid("price", msgMissingFields)
	}
	price, err := NormalizePrice(rawPrice)
	if err != nil {
		return nil, err
	}

	doc := bson.M{"name": name, "price": price, "image_url": ""}
	if url, ok := f["image_url"].(string); ok {
		doc["image_url"] = url
	}
	if r.kind.IsDetail() {
		raw, _ := r.parentValue(f)
		pid, err := r.resolveParent(ctx, raw)
		if err != nil {
			return nil, err
		}
		doc[r.kind.ParentField] = pid
	}

	saved, err := r.saveImage(ctx, img)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		doc["image_url"] = saved.URL
	}

	id, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.dropImage(ctx, saved)
		return nil, r.storeErr("creating", err)
	}
	doc["_id"] = id
	return r.decode(doc), nil
}

func (r *ItemRepository) Get(ctx context.Context, id string) (*models.Item, error) {
	oid, err := r.parseID(id)
	if err != nil {
		return nil, err
	}
	doc, err := r.collection.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, &NotFoundError{What: r.kind.Label}
		}
		return nil, r.storeErr("fetching", err)
	}
	return r.decode(doc), nil
}

// List returns every item of the kind, projected to the declared fields.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	return r.find(ctx, bson.M{})
}

// ListByParent returns the details attached to one parent.
func (r *ItemRepository) ListByParent(ctx context.Context, parentID string) ([]*models.Item, error) {
	if !r.kind.IsDetail() {
		return nil, errors.New("repository: " + r.kind.Name + " has no parent")
	}
	pid, err := r.resolveParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{r.kind.ParentField: pid})
}

// Update merges the fields present in f into the stored document. An empty
// f leaves the item unchanged. A new image replaces the previous file.
func (r *ItemRepository) Update(ctx context.Context, id string, f Fields, img *Upload) (*models.Item, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oid, _ := primitive.ObjectIDFromHex(current.ID)

	set := bson.M{}
	if v, ok := f["name"]; ok {
		name, _ := v.(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalid("name", "Name cannot be empty")
		}
		set["name"] = name
	}
	if v, ok := f["price"]; ok {
		price, err := NormalizePrice(v)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}
	if v, ok := f["image_url"].(string); ok && img == nil {
		set["image_url"] = v
	}
	if r.kind.IsDetail() {
		if raw, ok := r.parentValue(f); ok {
			pid, err := r.resolveParent(ctx, raw)
			if err != nil {
				return nil, err
			}
			set[r.kind.ParentField] = pid
		}
	}

	saved, err := r.saveImage(ctx, img)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		set["image_url"] = saved.URL
	}

	matched, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, set)
	if err != nil {
		r.dropImage(ctx, saved)
		return nil, r.storeErr("updating", err)
	}
	if matched == 0 {
		r.dropImage(ctx, saved)
		return nil, &NotFoundError{What: r.kind.Label}
	}
	if url, ok := set["image_url"].(string); ok && url != current.ImageURL {
		r.removeImageURL(ctx, current.ImageURL)
	}
	return r.Get(ctx, current.ID)
}

// Delete removes the item and, for a parent kind, every detail that points
// at it. It reports false with a NotFoundError when nothing was removed.
func (r *ItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return false, err
	}
	oid, _ := primitive.ObjectIDFromHex(current.ID)

	n, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, r.storeErr("deleting", err)
	}
	if n == 0 {
		return false, &NotFoundError{What: r.kind.Label}
	}
	r.removeImageURL(ctx, current.ImageURL)

	for _, child := range r.children {
		if err := child.deleteByParent(ctx, oid); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Exists reports whether id resolves to a stored item.
func (r *ItemRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *ItemRepository) deleteByParent(ctx context.Context, parent primitive.ObjectID) error {
	filter := bson.M{r.kind.ParentField: parent}
	orphans, err := r.collection.Find(ctx, filter)
	if err != nil {
		return r.storeErr("deleting", err)
	}
	if len(orphans) == 0 {
		return nil
	}
	n, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return r.storeErr("deleting", err)
	}
	for _, doc := range orphans {
		url, _ := doc["image_url"].(string)
		r.removeImageURL(ctx, url)
	}
	logger.From(ctx).Info("cascaded delete",
		zap.String("kind", r.kind.Name),
		zap.String("parent_id", parent.Hex()),
		zap.Int64("deleted", n),
	)
	return nil
}

func (r *ItemRepository) find(ctx context.Context, filter bson.M) ([]*models.Item, error) {
	docs, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, r.storeErr("fetching", err)
	}
	items := make([]*models.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, r.decode(doc))
	}
	return items, nil
}

func (r *ItemRepository) parentValue(f Fields) (any, bool) {
	if v, ok := f[r.kind.ParentField]; ok {
		return v, true
	}
	v, ok := f[ParentAlias]
	return v, ok
}

// resolveParent checks the syntax and the existence of a parent reference.
func (r *ItemRepository) resolveParent(ctx context.Context, raw any) (primitive.ObjectID, error) {
	s, _ := raw.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return primitive.NilObjectID, invalid(r.kind.ParentField, msgMissingFields)
	}
	pid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, invalid(r.kind.ParentField, "Invalid "+r.kind.Parent.Label+" ID")
	}
	ok, err := r.parent.Exists(ctx, s)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		return primitive.NilObjectID, &NotFoundError{What: r.kind.Parent.Label}
	}
	return pid, nil
}

func (r *ItemRepository) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalid("id", "Invalid "+r.kind.Label+" ID")
	}
	return oid, nil
}

func (r *ItemRepository) saveImage(ctx context.Context, img *Upload) (*storage.Image, error) {
	if img == nil {
		return nil, nil
	}
	if !r.images.Accepts(img.Filename) {
		return nil, storage.ErrInvalidImageType
	}
	saved, err := r.images.Save(ctx, r.kind.Name, img.Filename, img.Body)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImageType) {
			return nil, err
		}
		return nil, &StoreError{Op: "saving " + r.kind.Label + " image", Err: err}
	}
	return saved, nil
}

func (r *ItemRepository) dropImage(ctx context.Context, img *storage.Image) {
	if img == nil {
		return
	}
	if err := r.images.Remove(ctx, r.kind.Name, img.Name); err != nil {
		logger.From(ctx).Warn("could not remove orphaned image",
			zap.String("kind", r.kind.Name),
			zap.String("file", img.Name),
			zap.Error(err),
		)
	}
}

func (r *ItemRepository) removeImageURL(ctx context.Context, url string) {
	name, ok := r.images.NameFromURL(r.kind.Name, url)
	if !ok {
		return
	}
	r.dropImage(ctx, &storage.Image{Name: name, URL: url})
}

func (r *ItemRepository) storeErr(op string, err error) error {
	return &StoreError{Op: "Error " + op + " " + r.kind.Label, Err: err}
}

func (r *ItemRepository) decode(doc bson.M) *models.Item {
	item := &models.Item{Kind: r.kind}
	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		item.ID = id.Hex()
	}
	item.Name, _ = doc["name"].(string)
	item.Price = toFloat(doc["price"])
	item.ImageURL, _ = doc["image_url"].(string)
	if r.kind.IsDetail() {
		switch v := doc[r.kind.ParentField].(type) {
		case primitive.ObjectID:
			item.ParentID = v.Hex()
		case string:
			item.ParentID = v
		}
	}
	return item
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
