package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for user endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Self-service routes
	user := router.Group("/rest/api/user", middleware.RequireAuth())
	{
		user.GET("/me", h.GetMe)
		user.PUT("/update", h.UpdateProfile)
		user.DELETE("/delete", h.DeleteSelf)
	}

	// Admin user management
	admin := router.Group("/rest/api/admin/users", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.ListUsers)
		admin.GET("/:id", h.GetUserByID)
		admin.PUT("/:id/ban", h.ToggleBan)
		admin.PUT("/:id/role", h.ToggleRole)
		admin.DELETE("/:id", h.DeleteUser)
	}
}

// GetMe handles GET /rest/api/user/me
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Success{data=service.DtoUser}
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/user/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), middleware.Username(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user fetched", user)
}

// UpdateProfile handles PUT /rest/api/user/update
// @Summary      Update profile
// @Description  Updates the caller's profile; renaming mints a new token pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateProfileRequest  true  "Profile Payload"
// @Success      200      {object}  response.Success{data=service.UpdateProfileResponse}
// @Failure      400      {object}  response.APIError
// @Failure      409      {object}  response.APIError
// @Router       /rest/api/user/update [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	result, err := h.userService.UpdateProfile(c.Request.Context(), middleware.Username(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "profile updated", result)
}

// DeleteSelf handles DELETE /rest/api/user/delete
// @Summary      Delete own account
// @Description  Deletes the caller's account, comments and sessions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Success
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/user/delete [delete]
func (h *UserHandler) DeleteSelf(c *gin.Context) {
	if err := h.userService.DeleteByUsername(c.Request.Context(), middleware.Username(c)); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "account deleted", nil)
}

// ListUsers handles GET /rest/api/admin/users
// @Summary      List users
// @Description  Paginated user listing. Admin only.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Success{data=object}
// @Failure      500    {object}  response.APIError
// @Router       /rest/api/admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "users fetched", map[string]interface{}{
		"users": users,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	})
}

// GetUserByID handles GET /rest/api/admin/users/:id
// @Summary      Get user by ID
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Success{data=service.DtoUser}
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/admin/users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user fetched", user)
}

// ToggleBan handles PUT /rest/api/admin/users/:id/ban
// @Summary      Toggle user ban
// @Description  Flips the enabled flag; disabling also revokes sessions. Admin only.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Success{data=service.DtoUser}
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/admin/users/{id}/ban [put]
func (h *UserHandler) ToggleBan(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	user, err := h.userService.ToggleBan(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user ban toggled", user)
}

// ToggleRole handles PUT /rest/api/admin/users/:id/role
// @Summary      Toggle user role
// @Description  Promotes to admin or demotes to regular user, revoking sessions. Admin only.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Success{data=service.DtoUser}
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/admin/users/{id}/role [put]
func (h *UserHandler) ToggleRole(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	user, err := h.userService.ToggleRole(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user role toggled", user)
}

// DeleteUser handles DELETE /rest/api/admin/users/:id
// @Summary      Delete user
// @Description  Deletes a user, their comments and sessions. Admin only.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Success
// @Failure      404  {object}  response.APIError
// @Router       /rest/api/admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.userService.DeleteByID(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user deleted", nil)
}
