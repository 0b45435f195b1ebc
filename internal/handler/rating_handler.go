package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

// NewRatingHandler sets up the routing dependencies for rating endpoints
func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	ratings := router.Group("/rest/api/movies/:movieId/ratings", middleware.RequireAuth())
	{
		ratings.POST("", h.Rate)
		ratings.DELETE("", h.Delete)
		ratings.GET("/me", h.GetOwn)
	}
}

// Rate handles POST /rest/api/movies/:movieId/ratings
// @Summary      Rate film
// @Description  Creates or replaces the caller's score for a film and refreshes its stats
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      string                   true  "Film ID"
// @Param        payload  body      service.RateFilmRequest  true  "Score (1-5)"
// @Success      200      {object}  response.Success{data=service.DtoRating}
// @Failure      400      {object}  response.APIError
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/movies/{movieId}/ratings [post]
func (h *RatingHandler) Rate(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "movieId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req service.RateFilmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	rating, err := h.ratingService.Rate(c.Request.Context(), middleware.Username(c), filmID, req.Score)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "rating saved", rating)
}

// Delete handles DELETE /rest/api/movies/:movieId/ratings
// @Summary      Remove rating
// @Description  Removes the caller's score for a film and refreshes its stats
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      string  true  "Film ID"
// @Success      200      {object}  response.Success
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/movies/{movieId}/ratings [delete]
func (h *RatingHandler) Delete(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "movieId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), middleware.Username(c), filmID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "rating removed", nil)
}

// GetOwn handles GET /rest/api/movies/:movieId/ratings/me
// @Summary      Get own rating
// @Description  Returns the caller's score for a film, zero when unrated
// @Tags         ratings
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      string  true  "Film ID"
// @Success      200      {object}  response.Success{data=object}
// @Failure      404      {object}  response.APIError
// @Router       /rest/api/movies/{movieId}/ratings/me [get]
func (h *RatingHandler) GetOwn(c *gin.Context) {
	filmID, err := parseUUIDParam(c, "movieId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	score, err := h.ratingService.GetOwn(c.Request.Context(), middleware.Username(c), filmID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "rating fetched", map[string]interface{}{
		"filmId": filmID,
		"score":  score,
	})
}
