package handler

import (
	"net/http"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
)

type CheckInHandler struct {
	svc service.CheckInService
}

func NewCheckInHandler(svc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

func (h *CheckInHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/checkins", h.CheckIn)
	e.GET("/api/v1/events/:id/checkins", h.ListCheckedIn)
	e.GET("/api/v1/events/:id/sessions/:session_id/attendance", h.SessionAttendance)
	e.GET("/api/v1/registrations/:id/badge", h.Badge)
}

// CheckIn accepts a registration id or a confirmation code.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}

	reg, err := h.svc.CheckIn(c.Request().Context(), req.Key)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *CheckInHandler) ListCheckedIn(c echo.Context) error {
	regs, err := h.svc.CheckedIn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponses(regs))
}

func (h *CheckInHandler) SessionAttendance(c echo.Context) error {
	att, err := h.svc.SessionAttendance(c.Request().Context(), c.Param("id"), c.Param("session_id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAttendanceResponse(att))
}

// Badge renders the printable badge as plain text.
func (h *CheckInHandler) Badge(c echo.Context) error {
	badge, err := h.svc.Badge(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.String(http.StatusOK, badge.Render())
}
