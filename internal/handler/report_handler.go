package handler

import (
	"net/http"

	"github.com/Eursukkul/event-registration/internal/report"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:name", h.GetReport)
}

var contentTypes = map[string]string{
	"json": echo.MIMEApplicationJSONCharsetUTF8,
	"csv":  "text/csv; charset=UTF-8",
	"yaml": "application/yaml",
}

// GetReport renders attendance, revenue or sessions as ?format=json|csv|yaml.
func (h *ReportHandler) GetReport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "format must be json, csv or yaml")
	}

	t, err := h.svc.Build(c.Request().Context(), c.Param("name"))
	if err != nil {
		return toHTTPError(err)
	}

	body, err := report.Encode(t, format)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Blob(http.StatusOK, contentType, body)
}
