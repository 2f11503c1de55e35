package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/genai-chat/internal/domain"
)

// metricAnomalyRequest is the reports tool request body.
type metricAnomalyRequest struct {
	ObjectID  domain.ObjectID  `json:"object_id"`
	Metrics   []string         `json:"metrics,omitempty"`
	Question  string           `json:"question,omitempty"`
	GraphTime domain.GraphTime `json:"graph_time"`
	Anomalies bool             `json:"anomalies,omitempty"`
}

// MetricAnomaly builds metric and anomaly charts for one object.
// POST /v1/reports/metric-anomaly
func (h *Handler) MetricAnomaly(c echo.Context) error {
	var req metricAnomalyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ObjectID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "object_id is required"})
	}
	if len(req.Metrics) == 0 && req.Question == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "metrics or question is required"})
	}
	if req.GraphTime == "" {
		req.GraphTime = domain.GraphTimeOneDay
	}

	result, err := h.reports.MetricAnomalyHelper(c.Request().Context(), req.ObjectID, req.Metrics, req.Question, req.GraphTime, req.Anomalies)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
