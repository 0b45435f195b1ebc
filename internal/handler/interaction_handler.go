package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactionService service.InteractionService
}

// NewInteractionHandler sets up the routing dependencies for favorite/watched endpoints
func NewInteractionHandler(interactionService service.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *InteractionHandler) RegisterRoutes(router *gin.RouterGroup) {
	interactions := router.Group("/rest/api/interactions", middleware.RequireAuth())
	{
		interactions.GET("/favorites", h.ListFavorites)
		interactions.POST("/favorites/:filmId", h.AddFavorite)
		interactions.DELETE("/favorites/:filmId", h.RemoveFavorite)

		interactions.GET("/watched", h.ListWatched)
		interactions.POST("/watched/:filmId", h.AddWatched)
		interactions.DELETE("/watched/:filmId", h.RemoveWatched)
	}
}

// ListFavorites handles GET /rest/api/interactions/favorites
// @Summary      List favorites
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Success{data=[]service.DtoFilm}
// @Failure      401  {object}  response.APIError
// @Router       /rest/api/interactions/favorites [get]
func (h *InteractionHandler) ListFavorites(c *gin.Context) {
	films, err := h.interactionService.ListFavorites(c.Request.Context(), middleware.Username(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "favorites fetched", films)
}

// AddFavorite handles POST /rest/api/interactions/favorites/:filmId
// @Summary      Add favorite
// @Description  Adds a film to the caller's favorites; repeating is a no-op
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        filmId  path      string  true  "Film ID"
// @Success      200     {object}  response.Success
// @Failure      404     {object}  response.APIError
// @Router       /rest/api/interactions/favorites/{filmId} [post]
func (h *InteractionHandler) AddFavorite(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "filmId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.interactionService.AddFavorite(c.Request.Context(), middleware.Username(c), filmID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film added to favorites", nil)
}

// RemoveFavorite handles DELETE /rest/api/interactions/favorites/:filmId
// @Summary      Remove favorite
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        filmId  path      string  true  "Film ID"
// @Success      200     {object}  response.Success
// @Failure      404     {object}  response.APIError
// @Router       /rest/api/interactions/favorites/{filmId} [delete]
func (h *InteractionHandler) RemoveFavorite(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "filmId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.interactionService.RemoveFavorite(c.Request.Context(), middleware.Username(c), filmID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film removed from favorites", nil)
}

// ListWatched handles GET /rest/api/interactions/watched
// @Summary      List watched films
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Success{data=[]service.DtoFilm}
// @Failure      401  {object}  response.APIError
// @Router       /rest/api/interactions/watched [get]
func (h *InteractionHandler) ListWatched(c *gin.Context) {
	films, err := h.interactionService.ListWatched(c.Request.Context(), middleware.Username(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "watched films fetched", films)
}

// AddWatched handles POST /rest/api/interactions/watched/:filmId
// @Summary      Mark film watched
// @Description  Adds a film to the caller's watched list; repeating is a no-op
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        filmId  path      string  true  "Film ID"
// @Success      200     {object}  response.Success
// @Failure      404     {object}  response.APIError
// @Router       /rest/api/interactions/watched/{filmId} [post]
func (h *InteractionHandler) AddWatched(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "filmId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.interactionService.AddWatched(c.Request.Context(), middleware.Username(c), filmID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film marked as watched", nil)
}

// RemoveWatched handles DELETE /rest/api/interactions/watched/:filmId
// @Summary      Unmark film watched
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        filmId  path      string  true  "Film ID"
// @Success      200     {object}  response.Success
// @Failure      404     {object}  response.APIError
// @Router       /rest/api/interactions/watched/{filmId} [delete]
func (h *InteractionHandler) RemoveWatched(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "filmId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.interactionService.RemoveWatched(c.Request.Context(), middleware.Username(c), filmID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "film removed from watched", nil)
}
