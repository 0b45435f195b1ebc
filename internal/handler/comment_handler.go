package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler sets up the routing dependencies for comment endpoints
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/rest/api/comments")
	{
		comments.GET("/film/:filmId", h.GetByFilm)

		comments.POST("/save", middleware.RequireAuth(), h.Create)
		comments.PUT("/update/:id", middleware.RequireAuth(), h.Update)
		comments.DELETE("/delete/:id", middleware.RequireAuth(), h.Delete)
	}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		Username: middleware.Username(c),
		Roles:    middleware.Roles(c),
	}
}

// Create handles POST /rest/api/comments/save
// @Summary      Post comment
// @Description  Posts a comment or a reply to an existing root comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCommentRequest  true  "Comment Payload"
// @Success      201      {object}  response.Success{data=service.DtoComment}
// @Failure      400      {object}  response.APIError
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/comments/save [post]
func (h *CommentHandler) Create(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "comment created", comment)
}

// Update handles PUT /rest/api/comments/update/:id
// @Summary      Edit comment
// @Description  Edits the comment body. Author only.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Comment ID"
// @Param        payload  body      service.UpdateCommentRequest  true  "Comment Payload"
// @Success      200      {object}  response.Success{data=service.DtoComment}
// @Failure      403      {object}  response.APIError
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/comments/update/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req service.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "comment updated", comment)
}

// Delete handles DELETE /rest/api/comments/delete/:id
// @Summary      Delete comment
// @Description  Removes a comment; comments with replies are blanked instead. Author or admin.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  response.Success
// @Failure      403  {object}  response.APIError
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/comments/delete/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "comment deleted", nil)
}

// GetByFilm handles GET /rest/api/comments/film/:filmId
// @Summary      List film comments
// @Description  Returns the comment tree, newest roots first with replies in posting order
// @Tags         comments
// @Produce      json
// @Param        filmId  path      string  true  "Film ID"
// @Success      200     {object}  response.Success{data=[]service.DtoComment}
// @Failure      400     {object}  response.APIError
// @Router       /rest/api/comments/film/{filmId} [get]
func (h *CommentHandler) GetByFilm(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "filmId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	comments, err := h.commentService.GetByFilm(c.Request.Context(), filmID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "comments fetched", comments)
}
