package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler sets up the routing dependencies for category endpoints
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/rest/api/category")
	{
		categories.GET("/list", h.List)
		categories.GET("/list/:id", h.GetByID)

		categories.POST("/create", middleware.RequireRole(model.RoleAdmin), h.Create)
		categories.PUT("/update/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		categories.DELETE("/delete/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

// Create handles POST /rest/api/category/create
// @Summary      Create category
// @Description  Creates a category with a unique name. Admin only.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CategoryRequest  true  "Category Payload"
// @Success      201      {object}  response.Success{data=service.DtoCategory}
// @Failure      400      {object}  response.APIError
// @Failure      409      {object}  response.APIError
// @Router       /rest/api/category/create [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "category created", category)
}

// List handles GET /rest/api/category/list
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  response.Success{data=[]service.DtoCategory}
// @Failure      500  {object}  response.APIError
// @Router       /rest/api/category/list [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "categories fetched", categories)
}

// GetByID handles GET /rest/api/category/list/:id
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Success{data=service.DtoCategory}
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/category/list/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "category fetched", category)
}

// Update handles PUT /rest/api/category/update/:id
// @Summary      Update category
// @Description  Renames a category keeping the name unique. Admin only.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Category ID"
// @Param        payload  body      service.CategoryRequest  true  "Category Payload"
// @Success      200      {object}  response.Success{data=service.DtoCategory}
// @Failure      400      {object}  response.APIError
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/category/update/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "category updated", category)
}

// Delete handles DELETE /rest/api/category/delete/:id
// @Summary      Delete category
// @Description  Deletes a category; films keep their other categories. Admin only.
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Success
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/category/delete/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "category deleted", nil)
}
