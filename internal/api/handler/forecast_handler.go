package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailhq/sales-insights/internal/api/metrics"
	"github.com/retailhq/sales-insights/internal/core/ports"
)

type ForecastHandler struct {
	forecast ports.ForecastService
}

func NewForecastHandler(forecast ports.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecast: forecast}
}

type predictRequest struct {
	Horizon int `json:"horizon" validate:"omitempty,min=1,max=365"`
}

// Predict forecasts the daily revenue series. A missing or zero horizon falls
// back to the configured default.
//
// @Summary      Predict future revenue
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      predictRequest  false  "Forecast horizon in periods"
// @Success      200   {object}  domain.Forecast
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/predictions [post]
func (h *ForecastHandler) Predict(c echo.Context) error {
	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	forecast, err := h.forecast.PredictRevenue(c.Request().Context(), req.Horizon)
	if err != nil {
		metrics.CollaboratorRequestsTotal.WithLabelValues("forecast", "error").Inc()
		return err
	}

	metrics.CollaboratorRequestsTotal.WithLabelValues("forecast", "ok").Inc()
	return c.JSON(http.StatusOK, forecast)
}
