package inbox

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
	g := api.Group("/inbox", auth.RequireRole("admin", "project_manager", "office_manager", "accountant"))
	g.POST("/threads", h.CreateThread)
	g.GET("/threads", h.ListThreads)
	g.GET("/threads/:id", h.GetThread)
	g.POST("/threads/:id/archive", h.ArchiveThread)
	g.POST("/threads/:id/messages", h.RecordInbound)
	g.POST("/threads/:id/drafts", h.SaveDraft)
	g.PUT("/drafts/:id", h.UpdateDraft)
	g.GET("/drafts/:id", h.GetDraft)
	g.POST("/drafts/:id/send", h.SendDraft)
	g.POST("/drafts/:id/assist", h.AssistDraft)
}

func (h *Handler) CreateThread(c echo.Context) error {
	var in CreateThreadInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	tenantID, _ := c.Get("jwt_tenant_id").(string)
	th, err := h.svc.CreateThread(c.Request().Context(), tenantID, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, th)
}

func (h *Handler) ListThreads(c echo.Context) error {
	pg := pagination.FromContext(c)
	includeArchived := c.QueryParam("include_archived") == "true"
	threads, total, err := h.svc.ListThreads(c.Request().Context(), includeArchived, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(threads, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetThread(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	th, msgs, err := h.svc.GetThread(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "thread not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"thread":   th,
		"messages": msgs,
	})
}

func (h *Handler) ArchiveThread(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.ArchiveThread(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type inboundRequest struct {
	From string   `json:"from"`
	To   []string `json:"to"`
	Body string   `json:"body"`
}

func (h *Handler) RecordInbound(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req inboundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.svc.RecordInbound(c.Request().Context(), id, req.From, req.To, req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, msg)
}

type draftRequest struct {
	Body string `json:"body"`
}

func (h *Handler) SaveDraft(c echo.Context) error {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	authorID, _ := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	d, err := h.svc.SaveDraft(c.Request().Context(), threadID, authorID, uuid.Nil, req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

// UpdateDraft is the autosave path; it rewrites the body of an existing
// draft and bumps updated_at.
func (h *Handler) UpdateDraft(c echo.Context) error {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	existing, err := h.svc.GetDraft(c.Request().Context(), draftID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "draft not found")
	}
	d, err := h.svc.SaveDraft(c.Request().Context(), existing.ThreadID, existing.AuthorID, draftID, req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDraft(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "draft not found")
	}
	return c.JSON(http.StatusOK, d)
}

type sendRequest struct {
	From string `json:"from"`
}

func (h *Handler) SendDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msg, err := h.svc.SendDraft(c.Request().Context(), id, req.From)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusAccepted, msg)
}

type assistRequest struct {
	Instructions string `json:"instructions"`
}

func (h *Handler) AssistDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req assistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	suggestion, err := h.svc.AssistDraft(c.Request().Context(), id, req.Instructions)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"suggestion": suggestion})
}
