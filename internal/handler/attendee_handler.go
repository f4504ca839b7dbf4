package handler

import (
	"net/http"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
)

type AttendeeHandler struct {
	svc service.AttendeeService
}

func NewAttendeeHandler(svc service.AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{svc: svc}
}

func (h *AttendeeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.RegisterAttendee)
	g.GET("", h.ListAttendees)
	g.POST("/auth", h.Authenticate)
	g.GET("/:id", h.GetAttendee)
	g.PATCH("/:id", h.UpdateAttendee)
}

func (h *AttendeeHandler) RegisterAttendee(c echo.Context) error {
	var req dto.CreateAttendeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and email are required")
	}

	attendee := req.ToModel()
	if err := h.svc.RegisterAttendee(c.Request().Context(), attendee); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.AttendeeCreatedResponse{
		AttendeeResponse: dto.ToAttendeeResponse(attendee),
		PIN:              attendee.PIN,
	})
}

func (h *AttendeeHandler) Authenticate(c echo.Context) error {
	var req dto.AuthenticateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	attendee, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.PIN)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToAttendeeResponse(attendee))
}

func (h *AttendeeHandler) GetAttendee(c echo.Context) error {
	attendee, err := h.svc.GetAttendee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAttendeeResponse(attendee))
}

func (h *AttendeeHandler) UpdateAttendee(c echo.Context) error {
	var patch service.AttendeePatch
	if err := bind(c, &patch); err != nil {
		return err
	}

	attendee, err := h.svc.UpdateAttendee(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAttendeeResponse(attendee))
}

func (h *AttendeeHandler) ListAttendees(c echo.Context) error {
	attendees, err := h.svc.ListAttendees(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.AttendeeResponse, len(attendees))
	for i := range attendees {
		resp[i] = dto.ToAttendeeResponse(&attendees[i])
	}

	return c.JSON(http.StatusOK, resp)
}
