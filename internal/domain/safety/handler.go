package safety

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
	// Any field role can report; review actions are restricted.
	reportGroup := api.Group("", auth.RequireRole("admin", "safety_manager", "project_manager", "foreman", "field_worker"))
	reportGroup.POST("/incidents", h.LogIncident)
	reportGroup.GET("/incidents", h.ListIncidents)
	reportGroup.GET("/incidents/:id", h.GetIncident)
	reportGroup.GET("/incidents/meta", h.GetMeta)

	reviewGroup := api.Group("", auth.RequireRole("admin", "safety_manager"))
	reviewGroup.POST("/incidents/:id/review", h.StartReview)
	reviewGroup.POST("/incidents/:id/classify", h.ClassifyIncident)
	reviewGroup.POST("/incidents/:id/close", h.CloseIncident)
}

func (h *Handler) LogIncident(c echo.Context) error {
	var in CreateIncidentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reporterID, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))

	inc, err := h.svc.LogIncident(c.Request().Context(), in, reporterID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, inc)
}

func (h *Handler) GetIncident(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inc, err := h.svc.GetIncident(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "incident not found")
	}
	return c.JSON(http.StatusOK, incidentView(inc))
}

func (h *Handler) ListIncidents(c echo.Context) error {
	pg := pagination.FromContext(c)

	filter := ListFilter{
		Status:     c.QueryParam("status"),
		SourceType: c.QueryParam("source_type"),
	}
	if pid := c.QueryParam("project_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid project_id")
		}
		filter.ProjectID = &id
	}
	if rec := c.QueryParam("recordable"); rec != "" {
		v := rec == "true"
		filter.Recordable = &v
	}

	incs, total, err := h.svc.ListIncidents(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	views := make([]map[string]interface{}, 0, len(incs))
	for _, inc := range incs {
		views = append(views, incidentView(inc))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) StartReview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inc, err := h.svc.StartReview(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, incidentView(inc))
}

func (h *Handler) ClassifyIncident(c echo.Context) error {
	return h.saveClassification(c, false)
}

func (h *Handler) CloseIncident(c echo.Context) error {
	return h.saveClassification(c, true)
}

func (h *Handler) saveClassification(c echo.Context, closeIncident bool) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var form Classification
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var inc *Incident
	if closeIncident {
		inc, err = h.svc.Close(c.Request().Context(), id, form)
	} else {
		inc, err = h.svc.Classify(c.Request().Context(), id, form)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, incidentView(inc))
}

// GetMeta returns the enumerations the intake and classification forms are
// built from, so clients never hardcode their own copies.
func (h *Handler) GetMeta(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"injury_categories":  InjuryCategories,
		"body_parts":         BodyParts,
		"medical_treatments": MedicalTreatments,
	})
}

// incidentView decorates the record with its projected status badge.
func incidentView(inc *Incident) map[string]interface{} {
	return map[string]interface{}{
		"incident": inc,
		"badge":    inc.StatusBadge(),
	}
}
