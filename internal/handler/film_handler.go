package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FilmHandler struct {
	filmService service.FilmService
}

// NewFilmHandler sets up the routing dependencies for film endpoints
func NewFilmHandler(filmService service.FilmService) *FilmHandler {
	return &FilmHandler{filmService: filmService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *FilmHandler) RegisterRoutes(router *gin.RouterGroup) {
	films := router.Group("/rest/api/film")
	{
		films.GET("/list", h.List)
		films.GET("/list/:id", h.GetByID)
		films.GET("/search", h.Search)

		films.POST("/save", middleware.RequireRole(model.RoleAdmin), h.Create)
		films.PUT("/update/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		films.DELETE("/delete/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("invalid " + name + " parameter")
	}
	return id, nil
}

// Create handles POST /rest/api/film/save
// @Summary      Create film
// @Description  Creates a film with its categories. Admin only.
// @Tags         films
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.FilmRequest  true  "Film Payload"
// @Success      201      {object}  response.Success{data=service.DtoFilm}
// @Failure      400      {object}  response.APIError
// @Failure      409      {object}  response.APIError
// @Router       /rest/api/film/save [post]
func (h *FilmHandler) Create(c *gin.Context) {
	var req service.FilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	film, err := h.filmService.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "film created", film)
}

// List handles GET /rest/api/film/list
// @Summary      List films
// @Description  Lists all films, optionally filtered by listing type
// @Tags         films
// @Produce      json
// @Param        listingType  query     string  false  "TRENDING or COMING_SOON"
// @Success      200          {object}  response.Success{data=[]service.DtoFilm}
// @Failure      500          {object}  response.APIError
// @Router       /rest/api/film/list [get]
func (h *FilmHandler) List(c *gin.Context) {
	films, err := h.filmService.List(c.Request.Context(), c.Query("listingType"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "films fetched", films)
}

// GetByID handles GET /rest/api/film/list/:id
// @Summary      Get film by ID
// @Tags         films
// @Produce      json
// @Param        id   path      string  true  "Film ID"
// @Success      200  {object}  response.Success{data=service.DtoFilm}
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/film/list/{id} [get]
func (h *FilmHandler) GetByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	film, err := h.filmService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film fetched", film)
}

// Search handles GET /rest/api/film/search
// @Summary      Search films
// @Description  Case-insensitive title search; the query needs at least two characters
// @Tags         films
// @Produce      json
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  response.Success{data=[]service.DtoFilm}
// @Failure      400  {object}  response.APIError
// @Router       /rest/api/film/search [get]
func (h *FilmHandler) Search(c *gin.Context) {
	films, err := h.filmService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "films fetched", films)
}

// Update handles PUT /rest/api/film/update/:id
// @Summary      Update film
// @Description  Replaces a film's fields and category set. Admin only.
// @Tags         films
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Film ID"
// @Param        payload  body      service.FilmRequest  true  "Film Payload"
// @Success      200      {object}  response.Success{data=service.DtoFilm}
// @Failure      400      {object}  response.APIError
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/film/update/{id} [put]
func (h *FilmHandler) Update(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req service.FilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	film, err := h.filmService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film updated", film)
}

// Delete handles DELETE /rest/api/film/delete/:id
// @Summary      Delete film
// @Description  Deletes a film and its category links. Admin only.
// @Tags         films
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Film ID"
// @Success      200  {object}  response.Success
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/film/delete/{id} [delete]
func (h *FilmHandler) Delete(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	title, err := h.filmService.Delete(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film deleted: "+title, nil)
}
