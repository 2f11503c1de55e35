package service_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/xiaot623/genai-chat/internal/adapter/reports"
	"github.com/xiaot623/genai-chat/internal/domain"
	"github.com/xiaot623/genai-chat/internal/service"
)

type fakeSystems struct {
	detail *domain.SystemDetail
	err    error
}

func (f *fakeSystems) GetSystemDetail(ctx context.Context, system string) (*domain.SystemDetail, error) {
	return f.detail, f.err
}

type fakeBackend struct {
	queries []reports.MetricQuery
	anomErr error
}

func (f *fakeBackend) GetMetricData(ctx context.Context, query reports.MetricQuery) (*reports.MetricSeries, error) {
	f.queries = append(f.queries, query)
	return &reports.MetricSeries{Metric: query.Metric, Points: []reports.Point{{Timestamp: 1, Value: 2}}}, nil
}

func (f *fakeBackend) GetAnomalies(ctx context.Context, query reports.MetricQuery) (*reports.AnomalySeries, error) {
	if f.anomErr != nil {
		return nil, f.anomErr
	}
	return &reports.AnomalySeries{Metric: query.Metric}, nil
}

type fakeResolver struct {
	identifiers []string
	query       string
	product     string
	objectType  string
}

func (f *fakeResolver) ResolveMetrics(ctx context.Context, query, product, objectType string, limit int) ([]string, error) {
	f.query = query
	f.product = product
	f.objectType = objectType
	return f.identifiers, nil
}

func newReportsService(systems *fakeSystems, backend *fakeBackend, resolver *fakeResolver) *service.ReportsService {
	return service.NewReportsService(systems, backend, resolver, slog.New(slog.DiscardHandler))
}

func TestMetricAnomalyHelperCloudIQ(t *testing.T) {
	systems := &fakeSystems{detail: &domain.SystemDetail{System: "APM00193712772", CloudIQEnabled: true}}
	backend := &fakeBackend{}
	svc := newReportsService(systems, backend, &fakeResolver{})

	result, err := svc.MetricAnomalyHelper(context.Background(),
		"APM00193712772_FILESYSTEM_fs_95", []string{"bandwidth", "iops"}, "", domain.GraphTimeOneDay, true)
	if err != nil {
		t.Fatalf("MetricAnomalyHelper failed: %v", err)
	}

	// A line chart and an anomaly chart per metric.
	if len(result.Responses) != 4 {
		t.Fatalf("expected 4 responses, got %d", len(result.Responses))
	}
	if result.Responses[0].Layout != domain.LayoutLineChart || result.Responses[1].Layout != domain.LayoutAnomalyChart {
		t.Errorf("unexpected layouts: %v %v", result.Responses[0].Layout, result.Responses[1].Layout)
	}

	query := backend.queries[0]
	if query.System != "APM00193712772" || query.ObjectType != "FILESYSTEM" || query.ObjectID != "fs_95" {
		t.Errorf("object id not split correctly: %+v", query)
	}
	if query.Unit != "day" || query.Duration != 1 {
		t.Errorf("unexpected time span: %+v", query)
	}
}

func TestMetricAnomalyHelperAnomaliesNotRequested(t *testing.T) {
	systems := &fakeSystems{detail: &domain.SystemDetail{CloudIQEnabled: true}}
	backend := &fakeBackend{}
	svc := newReportsService(systems, backend, &fakeResolver{})

	result, err := svc.MetricAnomalyHelper(context.Background(),
		"APM00193712772_VOLUME_vol_1", []string{"latency"}, "", domain.GraphTimeOneDay, false)
	if err != nil {
		t.Fatalf("MetricAnomalyHelper failed: %v", err)
	}

	if len(result.Responses) != 1 || result.Responses[0].Layout != domain.LayoutLineChart {
		t.Errorf("expected line chart only, got %+v", result.Responses)
	}
}

func TestMetricAnomalyHelperWithoutCloudIQ(t *testing.T) {
	systems := &fakeSystems{detail: &domain.SystemDetail{CloudIQEnabled: false}}
	backend := &fakeBackend{}
	svc := newReportsService(systems, backend, &fakeResolver{})

	result, err := svc.MetricAnomalyHelper(context.Background(),
		"APM00193712772_VOLUME_vol_1", []string{"latency"}, "", domain.GraphTimeOneWeek, true)
	if err != nil {
		t.Fatalf("MetricAnomalyHelper failed: %v", err)
	}

	if len(result.Responses) != 1 {
		t.Fatalf("expected line chart only, got %d responses", len(result.Responses))
	}
	if result.Responses[0].Layout != domain.LayoutLineChart {
		t.Errorf("unexpected layout: %v", result.Responses[0].Layout)
	}
}

func TestMetricAnomalyHelperResolvesMetrics(t *testing.T) {
	systems := &fakeSystems{detail: &domain.SystemDetail{Product: "POWERSTORE", CloudIQEnabled: false}}
	backend := &fakeBackend{}
	resolver := &fakeResolver{identifiers: []string{"performance__read_bandwidth"}}
	svc := newReportsService(systems, backend, resolver)

	result, err := svc.MetricAnomalyHelper(context.Background(),
		"APM00193712772_VOLUME_vol_1", nil, "how fast are reads", domain.GraphTimeOneDay, false)
	if err != nil {
		t.Fatalf("MetricAnomalyHelper failed: %v", err)
	}

	if resolver.query != "how fast are reads" {
		t.Errorf("expected question forwarded to resolver, got %q", resolver.query)
	}
	if resolver.product != "POWERSTORE" || resolver.objectType != "VOLUME" {
		t.Errorf("expected resolver scoped to product and object type, got %q %q", resolver.product, resolver.objectType)
	}
	if len(result.Responses) != 1 {
		t.Fatalf("expected one response, got %d", len(result.Responses))
	}
	query := backend.queries[0]
	if query.Resource != "performance" || query.Metric != "read_bandwidth" {
		t.Errorf("expected identifier split into resource and column, got %+v", query)
	}
}

func TestMetricAnomalyHelperNoMetricsResolved(t *testing.T) {
	systems := &fakeSystems{detail: &domain.SystemDetail{}}
	svc := newReportsService(systems, &fakeBackend{}, &fakeResolver{})

	_, err := svc.MetricAnomalyHelper(context.Background(),
		"APM00193712772_VOLUME_vol_1", nil, "nonsense", domain.GraphTimeOneDay, false)
	if err == nil {
		t.Fatal("expected error when nothing resolves")
	}
}

func TestMetricAnomalyHelperMalformedObjectID(t *testing.T) {
	svc := newReportsService(&fakeSystems{}, &fakeBackend{}, &fakeResolver{})

	_, err := svc.MetricAnomalyHelper(context.Background(), "justonepart", []string{"iops"}, "", domain.GraphTimeOneDay, false)
	if err == nil {
		t.Fatal("expected error for malformed object id")
	}
}

func TestMetricAnomalyHelperAnomalyFailureKeepsLineChart(t *testing.T) {
	systems := &fakeSystems{detail: &domain.SystemDetail{CloudIQEnabled: true}}
	backend := &fakeBackend{anomErr: errors.New("cloudiq unavailable")}
	svc := newReportsService(systems, backend, &fakeResolver{})

	result, err := svc.MetricAnomalyHelper(context.Background(),
		"APM00193712772_VOLUME_vol_1", []string{"iops"}, "", domain.GraphTimeOneDay, true)
	if err != nil {
		t.Fatalf("MetricAnomalyHelper failed: %v", err)
	}
	if len(result.Responses) != 1 || result.Responses[0].Layout != domain.LayoutLineChart {
		t.Errorf("expected line chart to survive anomaly failure, got %+v", result.Responses)
	}
}
