package financial

import (
	"fmt"
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
	read := api.Group("", auth.RequireRole("admin", "project_manager", "accountant", "office_manager"))
	read.GET("/change-orders", h.ListChangeOrders)
	read.GET("/change-orders/:id", h.GetChangeOrder)
	read.GET("/pay-applications", h.ListPayApplications)
	read.GET("/pay-applications/:id", h.GetPayApplication)
	read.GET("/pay-applications/:id/export", h.ExportPayApplication)

	write := api.Group("", auth.RequireRole("admin", "project_manager", "accountant"))
	write.POST("/change-orders", h.CreateChangeOrder)
	write.POST("/change-orders/:id/decision", h.DecideChangeOrder)
	write.POST("/pay-applications", h.CreatePayApplication)
	write.PUT("/pay-applications/:id/lines", h.UpdatePayApplicationLines)
	write.POST("/pay-applications/:id/status", h.TransitionPayApplication)
}

func (h *Handler) CreateChangeOrder(c echo.Context) error {
	var in CreateChangeOrderInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tenantID, _ := c.Get("jwt_tenant_id").(string)
	co, err := h.svc.CreateChangeOrder(c.Request().Context(), tenantID, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, co)
}

func (h *Handler) GetChangeOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	co, err := h.svc.GetChangeOrder(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "change order not found")
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) ListChangeOrders(c echo.Context) error {
	projectID, err := uuid.Parse(c.QueryParam("project_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	pg := pagination.FromContext(c)
	cos, total, err := h.svc.ListChangeOrders(c.Request().Context(), projectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(cos, total, pg.Limit, pg.Offset))
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

func (h *Handler) DecideChangeOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	co, err := h.svc.DecideChangeOrder(c.Request().Context(), id, req.Decision)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) CreatePayApplication(c echo.Context) error {
	var in CreatePayApplicationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tenantID, _ := c.Get("jwt_tenant_id").(string)
	pa, err := h.svc.CreatePayApplication(c.Request().Context(), tenantID, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, pa)
}

func (h *Handler) GetPayApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pa, err := h.svc.GetPayApplication(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "pay application not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pay_application": pa,
		"totals":          pa.Totals(),
	})
}

func (h *Handler) ListPayApplications(c echo.Context) error {
	projectID, err := uuid.Parse(c.QueryParam("project_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	pg := pagination.FromContext(c)
	pas, total, err := h.svc.ListPayApplications(c.Request().Context(), projectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(pas, total, pg.Limit, pg.Offset))
}

type linesRequest struct {
	Lines []LineItem `json:"lines"`
}

func (h *Handler) UpdatePayApplicationLines(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req linesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pa, err := h.svc.UpdatePayApplicationLines(c.Request().Context(), id, req.Lines)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, pa)
}

type payAppTransitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) TransitionPayApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req payAppTransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pa, err := h.svc.TransitionPayApplication(c.Request().Context(), id, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, pa)
}

// ExportPayApplication streams the application as an xlsx workbook.
func (h *Handler) ExportPayApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pa, err := h.svc.GetPayApplication(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "pay application not found")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="pay-application-%d.xlsx"`, pa.Number))
	res.WriteHeader(http.StatusOK)

	if err := WriteXLSX(pa, res); err != nil {
		return fmt.Errorf("export pay application %s: %w", id, err)
	}
	return nil
}
