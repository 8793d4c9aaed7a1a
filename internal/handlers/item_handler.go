package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"apparel-catalog/internal/cache"
	"apparel-catalog/internal/metrics"
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/repository"
)

// ItemHandler serves the CRUD routes of one catalog kind.
type ItemHandler struct {
	repo      *repository.ItemRepository
	kind      *models.Kind
	cache     *cache.Cache
	metrics   *metrics.Metrics
	maxUpload int64
}

func NewItemHandler(repo *repository.ItemRepository, c *cache.Cache, m *metrics.Metrics, maxUpload int64) *ItemHandler {
	return &ItemHandler{
		repo:      repo,
		kind:      repo.Kind(),
		cache:     c,
		metrics:   m,
		maxUpload: maxUpload,
	}
}

// POST /<kind>, multipart form with name, price, image and, for details, the
// parent id.
func (h *ItemHandler) Create(c *gin.Context) {
	h.limitBody(c)
	fh, err := c.FormFile("image")
	if err != nil {
		if h.tooLarge(c, err) {
			return
		}
		badRequest(c, "Missing required fields")
		return
	}
	img, closeImg, err := openUpload(fh)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImg()

	item, err := h.repo.Create(c.Request.Context(), h.formFields(c), img)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusCreated, item)
}

// GET /<kind>
func (h *ItemHandler) List(c *gin.Context) {
	key := h.kind.Name + ":list"
	if h.serveCached(c, key) {
		return
	}
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCached(c, key, items)
}

// GET /<kind>/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id := c.Param("id")
	key := h.kind.Name + ":item:" + id
	if h.serveCached(c, key) {
		return
	}
	item, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCached(c, key, item)
}

// GET /<parent>/:id/details, served by the detail kind's handler.
func (h *ItemHandler) ListByParent(c *gin.Context) {
	id := c.Param("id")
	key := h.kind.Name + ":parent:" + id
	if h.serveCached(c, key) {
		return
	}
	items, err := h.repo.ListByParent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCached(c, key, items)
}

// PUT /<kind>/:id accepts a multipart or urlencoded form, where image is
// optional, or a JSON object. Absent fields are left unchanged.
func (h *ItemHandler) Update(c *gin.Context) {
	var (
		fields repository.Fields
		img    *repository.Upload
	)
	if c.ContentType() == gin.MIMEJSON {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "Invalid JSON format")
			return
		}
		fields = h.pick(func(key string) (any, bool) {
			v, ok := body[key]
			return v, ok
		})
	} else {
		h.limitBody(c)
		fh, err := c.FormFile("image")
		switch {
		case err == nil:
			var closeImg func()
			img, closeImg, err = openUpload(fh)
			if err != nil {
				respondError(c, err)
				return
			}
			defer closeImg()
		case h.tooLarge(c, err):
			return
		}
		fields = h.formFields(c)
	}

	item, err := h.repo.Update(c.Request.Context(), c.Param("id"), fields, img)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusOK, item)
}

// DELETE /<kind>/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	if _, err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.invalidate()
	c.JSON(http.StatusOK, MessageResponse{Message: h.kind.Label + " deleted successfully"})
}

// invalidate drops cached reads of the kind and of its detail kinds, which a
// cascading delete may have touched.
func (h *ItemHandler) invalidate() {
	h.cache.DeleteByPrefix(h.kind.Name + ":")
	for _, child := range h.kind.Children() {
		h.cache.DeleteByPrefix(child.Name + ":")
	}
}

func (h *ItemHandler) serveCached(c *gin.Context, key string) bool {
	if !h.cache.Enabled() {
		return false
	}
	data, ok := h.cache.Bytes(key)
	if !ok {
		h.metrics.CacheMiss(h.kind.Name)
		return false
	}
	h.metrics.CacheHit(h.kind.Name)
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", data)
	return true
}

func (h *ItemHandler) respondCached(c *gin.Context, key string, v any) {
	if !h.cache.Enabled() {
		c.JSON(http.StatusOK, v)
		return
	}
	data, err := h.cache.Marshal(key, v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", data)
}

func (h *ItemHandler) formFields(c *gin.Context) repository.Fields {
	return h.pick(func(key string) (any, bool) {
		v, ok := c.GetPostForm(key)
		return v, ok
	})
}

// pick copies the writable fields of the kind out of a request.
func (h *ItemHandler) pick(get func(string) (any, bool)) repository.Fields {
	keys := []string{"name", "price", "image_url"}
	if h.kind.IsDetail() {
		keys = append(keys, h.kind.ParentField, repository.ParentAlias)
	}
	f := repository.Fields{}
	for _, k := range keys {
		if v, ok := get(k); ok {
			f[k] = v
		}
	}
	return f
}

func (h *ItemHandler) limitBody(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
}

func (h *ItemHandler) tooLarge(c *gin.Context, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Message: "Upload exceeds the size limit"})
	return true
}

func openUpload(fh *multipart.FileHeader) (*repository.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &repository.Upload{Filename: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}
