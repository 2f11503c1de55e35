// Package vectorstore resolves free-form metric phrasing against the metric
// catalog held in Weaviate.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// MetricClassName is the Weaviate class that holds the metric catalog.
const MetricClassName = "Metric"

// MetricCatalog performs semantic lookup of catalog metric identifiers.
// Identifiers come back as "resource__column" pairs.
type MetricCatalog struct {
	client *weaviate.Client
}

// NewMetricCatalog creates a catalog against a Weaviate instance.
func NewMetricCatalog(host, scheme string) (*MetricCatalog, error) {
	client, err := weaviate.NewClient(weaviate.Config{
		Host:   host,
		Scheme: scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}
	return &MetricCatalog{client: client}, nil
}

// ResolveMetrics returns up to limit catalog metric identifiers semantically
// close to the query, scoped to one product and object type.
func (c *MetricCatalog) ResolveMetrics(ctx context.Context, query, product, objectType string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	nearText := c.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	operands := []*filters.WhereBuilder{
		filters.Where().
			WithPath([]string{"type"}).
			WithOperator(filters.Equal).
			WithValueString("metric"),
		filters.Where().
			WithPath([]string{"objectType"}).
			WithOperator(filters.Equal).
			WithValueString(objectType),
	}
	if product != "" {
		operands = append(operands, filters.Where().
			WithPath([]string{"product"}).
			WithOperator(filters.Equal).
			WithValueString(product))
	}
	where := filters.Where().
		WithOperator(filters.And).
		WithOperands(operands)

	result, err := c.client.GraphQL().Get().
		WithClassName(MetricClassName).
		WithFields(graphql.Field{Name: "identifier"}).
		WithWhere(where).
		WithNearText(nearText).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search metric catalog: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("metric catalog search error: %s", result.Errors[0].Message)
	}

	return extractIdentifiers(result.Data, limit)
}

// extractIdentifiers digs the identifiers out of the GraphQL response shape.
func extractIdentifiers(data map[string]models.JSONObject, limit int) ([]string, error) {
	get, ok := data["Get"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected metric catalog response shape")
	}
	items, ok := get[MetricClassName].([]any)
	if !ok {
		return nil, nil
	}

	var identifiers []string
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := obj["identifier"].(string); ok && id != "" {
			identifiers = append(identifiers, id)
		}
		if len(identifiers) == limit {
			break
		}
	}
	return identifiers, nil
}
