package portal

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sitedock/sitedock/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the authenticated management surface.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/portal", auth.RequireRole("admin", "project_manager"))
	g.POST("/shares", h.PublishShare)
	g.GET("/shares", h.ListShares)
	g.POST("/shares/:id/revoke", h.RevokeShare)
	g.POST("/shares/:id/items", h.CreateItem)
}

// RegisterPublicRoutes mounts the tokenized owner-facing surface; these
// paths bypass authentication via the auth skipper.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/portal/shares/:token", h.ViewShare)
	e.POST("/portal/shares/:token/items/:item_id/response", h.RespondToItem)
}

type publishRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
}

func (h *Handler) PublishShare(c echo.Context) error {
	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ProjectID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	tenantID, _ := c.Get("jwt_tenant_id").(string)
	sh, err := h.svc.PublishShare(c.Request().Context(), tenantID, req.ProjectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sh)
}

func (h *Handler) ListShares(c echo.Context) error {
	projectID, err := uuid.Parse(c.QueryParam("project_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	shares, err := h.svc.ListShares(c.Request().Context(), projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"shares": shares})
}

func (h *Handler) RevokeShare(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.RevokeShare(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in CreateItemInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.CreateItem(c.Request().Context(), id, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) ViewShare(c echo.Context) error {
	sh, items, err := h.svc.ViewShare(c.Request().Context(), c.Param("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "share not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"snapshot":     sh.Snapshot,
		"published_at": sh.CreatedAt,
		"action_items": items,
	})
}

type respondRequest struct {
	Status        string `json:"status"`
	ResponderName string `json:"responder_name"`
	Note          string `json:"note"`
}

func (h *Handler) RespondToItem(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.RespondToItem(c.Request().Context(), c.Param("token"), itemID, req.Status, req.ResponderName, req.Note)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}
