package handler

import (
	"net/http"
	"strconv"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(e *echo.Echo) {
	events := e.Group("/api/v1/events")
	events.GET("/:id/status", h.GetEventStatus)
	events.GET("/:id/revenue", h.GetRevenue)
	events.POST("/:id/registrations", h.Register)
	events.GET("/:id/registrations", h.ListRegistrations)
	events.GET("/:id/waitlist", h.ListWaitlist)
	events.POST("/:id/waitlist/promote", h.PromoteWaitlist)

	regs := e.Group("/api/v1/registrations")
	regs.GET("/:id", h.GetRegistration)
	regs.DELETE("/:id", h.CancelRegistration)
	regs.POST("/:id/transfer", h.Transfer)
	regs.POST("/:id/payment", h.MarkPaid)

	e.GET("/api/v1/attendees/:id/registrations", h.ListByAttendee)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	var req dto.CreateRegistrationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.AttendeeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "attendee_id is required")
	}

	reg, err := h.svc.Register(c.Request().Context(), req.ToLedger(c.Param("id")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

// CancelRegistration cancels and, with ?promote=true, immediately offers the
// freed seat to the head of the waitlist.
func (h *RegistrationHandler) CancelRegistration(c echo.Context) error {
	promote := false
	if v := c.QueryParam("promote"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "promote must be a boolean")
		}
		promote = b
	}

	ctx := c.Request().Context()
	reg, err := h.svc.Cancel(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	resp := dto.CancelResponse{Cancelled: dto.ToRegistrationResponse(reg)}
	if promote {
		promoted, err := h.svc.PromoteWaitlist(ctx, reg.EventID)
		if err != nil {
			log.WithError(err).WithField("event_id", reg.EventID).Warn("promotion after cancel failed")
		} else if promoted != nil {
			p := dto.ToRegistrationResponse(promoted)
			resp.Promoted = &p
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) PromoteWaitlist(c echo.Context) error {
	reg, err := h.svc.PromoteWaitlist(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	if reg == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) Transfer(c echo.Context) error {
	var req dto.TransferRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.AttendeeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "attendee_id is required")
	}

	reg, err := h.svc.Transfer(c.Request().Context(), c.Param("id"), req.AttendeeID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) MarkPaid(c echo.Context) error {
	reg, err := h.svc.MarkPaid(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) GetRegistration(c echo.Context) error {
	reg, err := h.svc.GetRegistration(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	var status *models.RegistrationStatus
	if s := c.QueryParam("status"); s != "" {
		rs := models.RegistrationStatus(s)
		if !rs.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status "+s)
		}
		status = &rs
	}

	regs, err := h.svc.ListByEvent(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponses(regs))
}

func (h *RegistrationHandler) ListWaitlist(c echo.Context) error {
	regs, err := h.svc.Waitlist(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponses(regs))
}

func (h *RegistrationHandler) ListByAttendee(c echo.Context) error {
	regs, err := h.svc.ListByAttendee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponses(regs))
}

func (h *RegistrationHandler) GetRevenue(c echo.Context) error {
	eventID := c.Param("id")
	revenue, err := h.svc.Revenue(c.Request().Context(), eventID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.RevenueResponse{EventID: eventID, Revenue: revenue})
}

func (h *RegistrationHandler) GetEventStatus(c echo.Context) error {
	status, err := h.svc.EventStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToEventStatusResponse(status))
}
