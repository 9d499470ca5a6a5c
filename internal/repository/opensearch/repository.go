package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
)

type searchRepository struct {
	client *opensearch.Client
	config *config.OpenSearchConfig
}

func NewRepository(client *opensearch.Client, config *config.OpenSearchConfig) repository.SearchRepository {
	return &searchRepository{
		client: client,
		config: config,
	}
}

// productDocument is the searchable projection of a product.
type productDocument struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Price        float64   `json:"price"`
	IsActive     bool      `json:"is_active"`
	Allergens    []string  `json:"allergens,omitempty"`
	Dietary      []string  `json:"dietary,omitempty"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func newProductDocument(p *domain.Product) productDocument {
	doc := productDocument{
		ID:          p.ID,
		TenantID:    p.TenantID,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Price:       p.Price,
		IsActive:    p.IsActive,
		Allergens:   p.Nutritional.Allergens,
		Dietary:     p.Nutritional.Dietary,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		doc.CategoryName = p.Category.Name
	}
	return doc
}

func (r *searchRepository) IndexProduct(ctx context.Context, product *domain.Product) error {
	if err := r.CreateIndex(ctx, product.TenantID); err != nil {
		return fmt.Errorf("failed to ensure index exists: %w", err)
	}

	data, err := json.Marshal(newProductDocument(product))
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      r.config.GetProductIndexName(product.TenantID),
		DocumentID: product.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// BulkIndexProducts rebuilds a tenant's documents in one request. Products of
// other tenants in the slice are skipped.
func (r *searchRepository) BulkIndexProducts(ctx context.Context, tenantID string, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.CreateIndex(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to ensure index exists: %w", err)
	}

	indexName := r.config.GetProductIndexName(tenantID)
	var body strings.Builder
	for i := range products {
		if products[i].TenantID != tenantID {
			continue
		}
		action, err := json.Marshal(map[string]any{
			"index": map[string]any{"_index": indexName, "_id": products[i].ID},
		})
		if err != nil {
			return fmt.Errorf("failed to marshal action: %w", err)
		}
		body.Write(action)
		body.WriteString("\n")

		doc, err := json.Marshal(newProductDocument(&products[i]))
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		body.Write(doc)
		body.WriteString("\n")
	}

	req := opensearchapi.BulkRequest{
		Body: strings.NewReader(body.String()),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to execute bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk request failed: %s", res.String())
	}

	return nil
}

func (r *searchRepository) DeleteProduct(ctx context.Context, tenantID, productID string) error {
	req := opensearchapi.DeleteRequest{
		Index:      r.config.GetProductIndexName(tenantID),
		DocumentID: productID,
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting document: %s", res.String())
	}

	return nil
}

// SearchProducts returns matching product ids in relevance order and the total hit count.
func (r *searchRepository) SearchProducts(ctx context.Context, tenantID string, search domain.ProductSearch) ([]string, int64, error) {
	queryJSON, err := json.Marshal(buildProductQuery(tenantID, search))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{r.config.GetProductIndexName(tenantID)},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			return []string{}, 0, nil
		}
		return nil, 0, fmt.Errorf("search request failed: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]string, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, searchResult.Hits.Total.Value, nil
}

// buildProductQuery always carries a tenant term even though indices are per tenant.
func buildProductQuery(tenantID string, search domain.ProductSearch) map[string]any {
	filter := []map[string]any{
		{"term": map[string]any{"tenant_id": tenantID}},
	}
	if search.CategoryID != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"category_id": search.CategoryID}})
	}
	if search.Active != nil {
		filter = append(filter, map[string]any{"term": map[string]any{"is_active": *search.Active}})
	}

	must := []map[string]any{}
	if q := strings.TrimSpace(search.Query); q != "" {
		must = append(must, map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^3", "category_name^2", "description", "dietary", "allergens"},
				"fuzziness": "AUTO",
			},
		})
	}

	page := domain.NewPage(search.Page.Page, search.Page.Limit)

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
		"from":             page.Offset(),
		"size":             page.Limit,
		"track_total_hits": true,
		"_source":          false,
		"sort": []any{
			"_score",
			map[string]any{"sort_order": map[string]any{"order": "asc"}},
		},
	}
}

func (r *searchRepository) getIndexMapping() string {
	return fmt.Sprintf(`{
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"tenant_id": { "type": "keyword" },
				"name": { "type": "text", "fields": { "raw": { "type": "keyword" } } },
				"description": { "type": "text" },
				"category_id": { "type": "keyword" },
				"category_name": { "type": "text" },
				"price": { "type": "scaled_float", "scaling_factor": 100 },
				"is_active": { "type": "boolean" },
				"allergens": { "type": "keyword" },
				"dietary": { "type": "keyword" },
				"sort_order": { "type": "integer" },
				"created_at": { "type": "date" }
			}
		},
		"settings": {
			"index": {
				"number_of_shards": %d,
				"number_of_replicas": %d,
				"refresh_interval": "1s"
			}
		}
	}`, r.config.Shards, r.config.Replicas)
}

func (r *searchRepository) CreateIndex(ctx context.Context, tenantID string) error {
	indexName := r.config.GetProductIndexName(tenantID)

	exists := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}
	res, err := exists.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	create := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(r.getIndexMapping()),
	}

	res, err = create.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	// A concurrent writer may have created it in between.
	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

func (r *searchRepository) DeleteIndex(ctx context.Context, tenantID string) error {
	req := opensearchapi.IndicesDeleteRequest{
		Index: []string{r.config.GetProductIndexName(tenantID)},
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error deleting index: %s", res.String())
	}

	return nil
}
