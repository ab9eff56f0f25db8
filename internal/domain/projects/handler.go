package projects

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
	readGroup := api.Group("", auth.RequireRole("admin", "project_manager", "safety_manager", "foreman", "field_worker", "accountant"))
	readGroup.GET("/projects", h.ListProjects)
	readGroup.GET("/projects/:id", h.GetProject)
	readGroup.GET("/projects/:id/work-orders", h.ListWorkOrders)
	readGroup.GET("/projects/:id/inspections", h.ListInspections)
	readGroup.GET("/work-orders/:id", h.GetWorkOrder)

	writeGroup := api.Group("", auth.RequireRole("admin", "project_manager"))
	writeGroup.POST("/projects", h.CreateProject)
	writeGroup.PUT("/projects/:id", h.UpdateProject)
	writeGroup.POST("/projects/:id/work-orders", h.CreateWorkOrder)
	writeGroup.PATCH("/work-orders/:id/status", h.TransitionWorkOrder)

	inspectGroup := api.Group("", auth.RequireRole("admin", "project_manager", "safety_manager", "foreman"))
	inspectGroup.POST("/projects/:id/inspections", h.RecordInspection)
}

func (h *Handler) CreateProject(c echo.Context) error {
	var p Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProject(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProject(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProject(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProjects(c echo.Context) error {
	pg := pagination.FromContext(c)
	ps, total, err := h.svc.ListProjects(c.Request().Context(), c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(ps, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateWorkOrder(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var wo WorkOrder
	if err := c.Bind(&wo); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	wo.ProjectID = projectID
	if err := h.svc.CreateWorkOrder(c.Request().Context(), &wo); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, wo)
}

func (h *Handler) GetWorkOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	wo, err := h.svc.GetWorkOrder(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "work order not found")
	}
	return c.JSON(http.StatusOK, wo)
}

func (h *Handler) TransitionWorkOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	wo, err := h.svc.TransitionWorkOrder(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, wo)
}

func (h *Handler) ListWorkOrders(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	wos, total, err := h.svc.ListWorkOrders(c.Request().Context(), projectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(wos, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecordInspection(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var gi GroundsInspection
	if err := c.Bind(&gi); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	gi.ProjectID = projectID

	inspectorID, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if gi.InspectorID == uuid.Nil {
		gi.InspectorID = inspectorID
	}

	if err := h.svc.RecordInspection(c.Request().Context(), &gi); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, gi)
}

func (h *Handler) ListInspections(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	gis, total, err := h.svc.ListInspections(c.Request().Context(), projectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(gis, total, pg.Limit, pg.Offset))
}
