package resolvers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	gqlmodels "stockyard.GO/graphql/models"
	materialRepo "stockyard.GO/model/repository/material"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

type SearchService struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		host = "http://localhost:9200"
	}
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "stockyard_material"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{index: index}
	}

	return &SearchService{
		client: client,
		index:  index,
	}
}

// Search (resolver) delegates to SearchService.
func (r *QueryResolver) Search(ctx context.Context, query string, pageSize *int, currentPage *int) (*gqlmodels.MaterialSearchResult, error) {
	return r.searchService().Search(ctx, query, pageSize, currentPage, r.materials)
}

// Search queries the material index by name and code.
func (s *SearchService) Search(
	ctx context.Context,
	query string,
	pageSize *int,
	currentPage *int,
	materials *materialRepo.MaterialRepository,
) (*gqlmodels.MaterialSearchResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}

	ps := defaultPageSize(pageSize)
	cp := defaultCurrentPage(currentPage)
	from := (cp - 1) * ps

	body := map[string]interface{}{
		"from": from,
		"size": ps,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "code^2", "unit"},
			},
		},
	}

	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	var ids []uint
	for _, hit := range esResp.Hits.Hits {
		if materialID, ok := hit.Source["material_id"].(float64); ok {
			ids = append(ids, uint(materialID))
		}
	}

	rows, err := materials.ListByIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]*gqlmodels.Material, 0, len(ids))
	for _, id := range ids {
		m, ok := rows[id]
		if !ok {
			continue
		}
		model, err := materialToModel(m)
		if err != nil {
			return nil, err
		}
		items = append(items, model)
	}

	total := esResp.Hits.Total.Value
	return &gqlmodels.MaterialSearchResult{
		Items:      items,
		TotalCount: int32(total),
		PageInfo: &gqlmodels.PageInfo{
			PageSize:    int32(ps),
			CurrentPage: int32(cp),
			TotalPages:  int32(totalPages(total, ps)),
		},
	}, nil
}
