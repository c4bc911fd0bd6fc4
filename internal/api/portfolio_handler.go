package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolioPro/internal/database"
	"portfolioPro/internal/portfolio"
)

// PortfolioHandler exposes portfolio CRUD plus the project composition
// operations (attach, detach, reorder).
type PortfolioHandler struct {
	svc *portfolio.PortfolioService
}

func NewPortfolioHandler(svc *portfolio.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{svc: svc}
}

func (h *PortfolioHandler) Register(owned, public *gin.RouterGroup) {
	owned.POST("/portfolios", h.Create)
	owned.GET("/portfolios", h.ListMine)
	owned.GET("/portfolios/:id", h.GetMine)
	owned.PATCH("/portfolios/:id", h.Update)
	owned.DELETE("/portfolios/:id", h.Delete)
	owned.GET("/portfolios/:id/projects", h.Projects)
	owned.POST("/portfolios/:id/projects", h.AttachProject)
	owned.DELETE("/portfolios/:id/projects/:projectID", h.DetachProject)
	owned.PUT("/portfolios/:id/projects/order", h.ReorderProjects)

	public.GET("/portfolios", h.ListPublic)
	public.GET("/users/:userID/portfolios/:slug", h.GetPublicBySlug)
}

type createPortfolioRequest struct {
	Name          string  `json:"name" binding:"required"`
	Slug          string  `json:"slug"`
	Description   *string `json:"description"`
	IsPublic      *bool   `json:"is_public"`
	IsDefault     bool    `json:"is_default"`
	CoverImageURL *string `json:"cover_image_url"`
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	p := &database.Portfolio{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		IsPublic:      true,
		IsDefault:     req.IsDefault,
		CoverImageURL: req.CoverImageURL,
	}
	if req.IsPublic != nil {
		p.IsPublic = *req.IsPublic
	}

	created, err := h.svc.Create(c.Request.Context(), userID, p)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PortfolioHandler) ListMine(c *gin.Context) {
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

func (h *PortfolioHandler) ListPublic(c *gin.Context) {
	filters := map[string]string{
		"name": c.Query("name"),
		"slug": c.Query("slug"),
	}
	page, err := h.svc.ListPublic(c.Request.Context(), pageFromQuery(c), filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PortfolioHandler) GetMine(c *gin.Context) {
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

	p, err := h.svc.GetOwned(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PortfolioHandler) GetPublicBySlug(c *gin.Context) {
	targetID, ok := idParam(c, "userID")
	if !ok {
		BadRequest(c, "invalid user id")
		return
	}

	p, err := h.svc.GetPublicBySlug(c.Request.Context(), targetID, c.Param("slug"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updatePortfolioRequest struct {
	Name          *string `json:"name"`
	Slug          *string `json:"slug"`
	Description   *string `json:"description"`
	IsPublic      *bool   `json:"is_public"`
	IsDefault     *bool   `json:"is_default"`
	CoverImageURL *string `json:"cover_image_url"`
}

func (h *PortfolioHandler) Update(c *gin.Context) {
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

	var req updatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = req.CoverImageURL
	}

	p, err := h.svc.Update(c.Request.Context(), id, userID, updates)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
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

func (h *PortfolioHandler) Projects(c *gin.Context) {
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

	// Ownership gate before listing the composition.
	if _, err := h.svc.GetOwned(c.Request.Context(), id, userID); err != nil {
		RespondError(c, err)
		return
	}

	projects, err := h.svc.Projects(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": projects})
}

type attachProjectRequest struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	Position  *int      `json:"position"`
	Notes     *string   `json:"notes"`
}

func (h *PortfolioHandler) AttachProject(c *gin.Context) {
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

	var req attachProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	link, err := h.svc.AttachProject(c.Request.Context(), id, req.ProjectID, userID, req.Position, req.Notes)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *PortfolioHandler) DetachProject(c *gin.Context) {
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
	projectID, ok := idParam(c, "projectID")
	if !ok {
		BadRequest(c, "invalid project id")
		return
	}

	if err := h.svc.DetachProject(c.Request.Context(), id, projectID, userID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderProjectsRequest struct {
	ProjectIDs []uuid.UUID `json:"project_ids" binding:"required"`
}

func (h *PortfolioHandler) ReorderProjects(c *gin.Context) {
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

	var req reorderProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.svc.ReorderProjects(c.Request.Context(), id, userID, req.ProjectIDs); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
