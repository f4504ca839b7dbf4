package handler

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateEvent)
	g.GET("", h.ListEvents)
	g.GET("/:id", h.GetEvent)
	g.PATCH("/:id", h.UpdateEvent)
	g.POST("/:id/sessions", h.AddSession)
	g.GET("/:id/sessions", h.ListSessions)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if strings.TrimSpace(req.Name) == "" || req.Capacity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and capacity (>0) are required")
	}

	event := req.ToModel()
	if err := h.svc.CreateEvent(c.Request().Context(), event); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToEventResponse(event))
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var patch service.EventPatch
	if err := bind(c, &patch); err != nil {
		return err
	}

	event, err := h.svc.UpdateEvent(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.svc.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.EventResponse, len(events))
	for i, e := range events {
		resp[i] = dto.ToEventResponse(&e)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) AddSession(c echo.Context) error {
	var req dto.CreateSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session := req.ToModel()
	if err := h.svc.AddSession(c.Request().Context(), c.Param("id"), &session); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToSessionResponse(&session))
}

func (h *EventHandler) ListSessions(c echo.Context) error {
	sessions, err := h.svc.ListSessions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = dto.ToSessionResponse(&sessions[i])
	}

	return c.JSON(http.StatusOK, resp)
}
