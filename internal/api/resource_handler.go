package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolioPro/internal/resource"
)

// ResourceHandler is the generic HTTP binding for the owned-resource CRUD
// contract. One instance per entity; the per-entity files only supply the
// request decoding.
type ResourceHandler[T any, P resource.Ownable[T]] struct {
	svc *resource.Service[T, P]
	// decodeCreate binds the create payload into a fresh record.
	decodeCreate func(*gin.Context) (*T, error)
	// decodeUpdate binds the partial-update payload into a column/value map
	// containing only the fields the client actually sent.
	decodeUpdate func(*gin.Context) (map[string]any, error)
}

func NewResourceHandler[T any, P resource.Ownable[T]](
	svc *resource.Service[T, P],
	decodeCreate func(*gin.Context) (*T, error),
	decodeUpdate func(*gin.Context) (map[string]any, error),
) *ResourceHandler[T, P] {
	return &ResourceHandler[T, P]{
		svc:          svc,
		decodeCreate: decodeCreate,
		decodeUpdate: decodeUpdate,
	}
}

// Register mounts the owner-scoped routes on owned (behind auth) and the
// read-only cross-user routes on public.
func (h *ResourceHandler[T, P]) Register(owned, public *gin.RouterGroup, name string) {
	owned.POST("/"+name, h.Create)
	owned.GET("/"+name, h.ListMine)
	owned.GET("/"+name+"/:id", h.GetMine)
	owned.PATCH("/"+name+"/:id", h.Update)
	owned.DELETE("/"+name+"/:id", h.Delete)

	public.GET("/"+name, h.ListPublic)
	public.GET("/"+name+"/:id", h.GetPublic)
	public.GET("/users/:userID/"+name, h.ListByUser)
}

func (h *ResourceHandler[T, P]) Create(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	rec, err := h.decodeCreate(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), userID, rec)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler[T, P]) ListMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	page, err := h.svc.ListOwned(c.Request.Context(), userID, pageFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ResourceHandler[T, P]) ListPublic(c *gin.Context) {
	filters := map[string]string{}
	for param := range h.svc.Definition().Filters {
		filters[param] = c.Query(param)
	}

	page, err := h.svc.ListPublic(c.Request.Context(), pageFromQuery(c), filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ResourceHandler[T, P]) ListByUser(c *gin.Context) {
	targetID, ok := idParam(c, "userID")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}

	page, err := h.svc.ListByUser(c.Request.Context(), targetID, pageFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ResourceHandler[T, P]) GetMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	rec, err := h.svc.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandler[T, P]) GetPublic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	rec, err := h.svc.GetPublic(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandler[T, P]) Update(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	updates, err := h.decodeUpdate(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), id, userID, updates)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ResourceHandler[T, P]) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
