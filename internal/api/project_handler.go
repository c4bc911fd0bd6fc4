package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"portfolioPro/internal/database"
	"portfolioPro/internal/portfolio"
)

// ProjectHandler exposes project CRUD plus the social surface: members,
// likes, comments and the owner's audit feed.
type ProjectHandler struct {
	svc *portfolio.ProjectService
}

func NewProjectHandler(svc *portfolio.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) Register(owned, public *gin.RouterGroup) {
	owned.POST("/projects", h.Create)
	owned.GET("/projects", h.ListMine)
	owned.GET("/projects/:id", h.GetMine)
	owned.PATCH("/projects/:id", h.Update)
	owned.DELETE("/projects/:id", h.Delete)
	owned.POST("/projects/:id/members", h.AddMember)
	owned.GET("/projects/:id/audit", h.AuditLog)
	owned.POST("/projects/:id/like", h.ToggleLike)
	owned.POST("/projects/:id/comments", h.AddComment)
	owned.DELETE("/comments/:id", h.DeleteComment)

	public.GET("/projects", h.ListPublic)
	public.GET("/projects/:id", h.GetPublic)
	public.GET("/projects/:id/comments", h.ListComments)
}

type createProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	URL         *string `json:"url"`
	ImageURL    *string `json:"image_url"`
	IsCompleted bool    `json:"is_completed"`
	IsConcept   bool    `json:"is_concept"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	p := &database.Project{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		IsCompleted: req.IsCompleted,
		IsConcept:   req.IsConcept,
		IsPublic:    true,
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

func (h *ProjectHandler) ListMine(c *gin.Context) {
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

func (h *ProjectHandler) ListPublic(c *gin.Context) {
	filters := map[string]string{
		"name":     c.Query("name"),
		"category": c.Query("category"),
	}
	page, err := h.svc.ListPublic(c.Request.Context(), pageFromQuery(c), filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProjectHandler) GetMine(c *gin.Context) {
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

func (h *ProjectHandler) GetPublic(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	p, err := h.svc.GetPublic(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	URL         *string `json:"url"`
	ImageURL    *string `json:"image_url"`
	IsCompleted *bool   `json:"is_completed"`
	IsConcept   *bool   `json:"is_concept"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
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

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.Category != nil {
		updates["category"] = req.Category
	}
	if req.URL != nil {
		updates["url"] = req.URL
	}
	if req.ImageURL != nil {
		updates["image_url"] = req.ImageURL
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}
	if req.IsConcept != nil {
		updates["is_concept"] = *req.IsConcept
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}

	p, err := h.svc.Update(c.Request.Context(), id, userID, updates)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
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

type addMemberRequest struct {
	UserID       uuid.UUID `json:"user_id" binding:"required"`
	Role         *string   `json:"role"`
	Contribution *string   `json:"contribution"`
	CanEdit      bool      `json:"can_edit"`
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
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

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), id, userID, req.UserID, req.Role, req.Contribution, req.CanEdit)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *ProjectHandler) AuditLog(c *gin.Context) {
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

	page, err := h.svc.AuditLog(c.Request.Context(), id, userID, pageFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProjectHandler) ToggleLike(c *gin.Context) {
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

	liked, count, err := h.svc.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": count})
}

type addCommentRequest struct {
	Content         string     `json:"content" binding:"required"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

func (h *ProjectHandler) AddComment(c *gin.Context) {
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

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), id, userID, req.Content, req.ParentCommentID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *ProjectHandler) ListComments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		BadRequest(c, "invalid id")
		return
	}

	page, err := h.svc.ListComments(c.Request.Context(), id, pageFromQuery(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProjectHandler) DeleteComment(c *gin.Context) {
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

	if err := h.svc.DeleteComment(c.Request.Context(), id, userID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
