package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xiaot623/genai-chat/internal/adapter/reports"
	"github.com/xiaot623/genai-chat/internal/domain"
)

// SystemLookup resolves a system id to its detail record.
type SystemLookup interface {
	GetSystemDetail(ctx context.Context, system string) (*domain.SystemDetail, error)
}

// MetricsBackend serves metric time series and anomaly detections.
type MetricsBackend interface {
	GetMetricData(ctx context.Context, query reports.MetricQuery) (*reports.MetricSeries, error)
	GetAnomalies(ctx context.Context, query reports.MetricQuery) (*reports.AnomalySeries, error)
}

// MetricResolver maps free-form metric phrasing to catalog metric
// identifiers of the form "resource__column".
type MetricResolver interface {
	ResolveMetrics(ctx context.Context, query, product, objectType string, limit int) ([]string, error)
}

// ReportsService builds renderable metric and anomaly reports for the
// reports tool.
type ReportsService struct {
	systems  SystemLookup
	backend  MetricsBackend
	resolver MetricResolver
	logger   *slog.Logger
}

// NewReportsService creates a new reports service.
func NewReportsService(systems SystemLookup, backend MetricsBackend, resolver MetricResolver, logger *slog.Logger) *ReportsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportsService{
		systems:  systems,
		backend:  backend,
		resolver: resolver,
		logger:   logger,
	}
}

// MetricAnomalyHelper builds the layout responses for one object: a line
// chart per metric, plus an anomaly chart per metric when anomalies are
// requested and the system reports into CloudIQ. When no metrics are named,
// the question is resolved against the metric catalog.
func (s *ReportsService) MetricAnomalyHelper(ctx context.Context, objectID domain.ObjectID, metrics []string, question string, graphTime domain.GraphTime, anomalies bool) (*domain.ChatLayoutResponse, error) {
	system, objectType, localID, err := objectID.Parts()
	if err != nil {
		return nil, err
	}

	detail, err := s.systems.GetSystemDetail(ctx, system)
	if err != nil {
		return nil, fmt.Errorf("failed to look up system %s: %w", system, err)
	}

	if len(metrics) == 0 {
		metrics, err = s.resolver.ResolveMetrics(ctx, question, detail.Product, objectType, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve metrics: %w", err)
		}
		if len(metrics) == 0 {
			return nil, fmt.Errorf("no metrics matched question for object type %s", objectType)
		}
	}

	unit, duration := graphTime.Span()
	response := &domain.ChatLayoutResponse{}

	for _, metric := range metrics {
		resource, column := splitIdentifier(metric)
		query := reports.MetricQuery{
			System:     system,
			ObjectType: objectType,
			ObjectID:   localID,
			Resource:   resource,
			Metric:     column,
			Unit:       unit,
			Duration:   duration,
		}

		series, err := s.backend.GetMetricData(ctx, query)
		if err != nil {
			return nil, err
		}
		response.Responses = append(response.Responses, domain.ToolLayoutResponse{
			Layout: domain.LayoutLineChart,
			Data:   series,
		})

		// Anomaly detection runs in CloudIQ; systems not reporting there
		// have nothing to ask for.
		if !anomalies || !detail.CloudIQEnabled {
			continue
		}
		anomalies, err := s.backend.GetAnomalies(ctx, query)
		if err != nil {
			s.logger.Warn("failed to fetch anomalies", "system", system, "metric", metric, "error", err)
			continue
		}
		response.Responses = append(response.Responses, domain.ToolLayoutResponse{
			Layout: domain.LayoutAnomalyChart,
			Data:   anomalies,
		})
	}

	return response, nil
}

// splitIdentifier splits a catalog "resource__column" identifier. Plain
// metric names pass through with no resource.
func splitIdentifier(metric string) (resource, column string) {
	if before, after, found := strings.Cut(metric, "__"); found {
		return before, after
	}
	return "", metric
}
