package issues

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sitedock/sitedock/internal/platform/auth"
	"github.com/sitedock/sitedock/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "project_manager", "safety_manager", "foreman", "field_worker", "office_manager"))
	g.POST("/issues", h.CreateIssue)
	g.GET("/issues", h.ListIssues)
	g.GET("/issues/:id", h.GetIssue)
	g.POST("/issues/:id/status", h.TransitionIssue)
	g.POST("/issues/:id/assign", h.AssignIssue)
	g.POST("/issues/:id/comments", h.AddComment)
	g.GET("/issues/:id/comments", h.ListComments)
}

func (h *Handler) CreateIssue(c echo.Context) error {
	var in CreateIssueInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reporterID, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	tenantID, _ := c.Get("jwt_tenant_id").(string)
	iss, err := h.svc.CreateIssue(c.Request().Context(), tenantID, reporterID, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, iss)
}

func (h *Handler) GetIssue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	iss, err := h.svc.GetIssue(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "issue not found")
	}
	return c.JSON(http.StatusOK, iss)
}

func (h *Handler) ListIssues(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := ListFilter{
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
	}
	if v := c.QueryParam("project_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid project_id")
		}
		f.ProjectID = &id
	}
	if v := c.QueryParam("assignee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid assignee_id")
		}
		f.AssigneeID = &id
	}
	issues, total, err := h.svc.ListIssues(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(issues, total, pg.Limit, pg.Offset))
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) TransitionIssue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	iss, err := h.svc.TransitionIssue(c.Request().Context(), id, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, iss)
}

type assignRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

func (h *Handler) AssignIssue(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	iss, err := h.svc.AssignIssue(c.Request().Context(), id, req.AssigneeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, iss)
}

type commentRequest struct {
	Body string `json:"body"`
}

func (h *Handler) AddComment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	authorID, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	cm, err := h.svc.AddComment(c.Request().Context(), id, authorID, req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cm)
}

func (h *Handler) ListComments(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	comments, err := h.svc.ListComments(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "issue not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"comments": comments})
}
