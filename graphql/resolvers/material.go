package resolvers

import (
	"context"

	gqlmodels "stockyard.GO/graphql/models"
	materialEntity "stockyard.GO/model/entity/material"
)

// Materials returns a page of the catalog. top=true hides materials that
// only exist as components of a composite.
func (r *QueryResolver) Materials(ctx context.Context, pageSize *int, currentPage *int, top bool) (*gqlmodels.MaterialList, error) {
	ps := defaultPageSize(pageSize)
	cp := defaultCurrentPage(currentPage)

	list, err := r.materials.List()
	if err != nil {
		return nil, err
	}
	if top {
		componentIDs, err := r.compositions.ListComponentMaterialIDs()
		if err != nil {
			return nil, err
		}
		filtered := list[:0]
		for _, m := range list {
			if _, isComponent := componentIDs[m.MaterialID]; !isComponent {
				filtered = append(filtered, m)
			}
		}
		list = filtered
	}

	total := len(list)
	page := paginateMaterials(list, cp, ps)
	items := make([]*gqlmodels.Material, 0, len(page))
	for _, m := range page {
		model, err := materialToModel(m)
		if err != nil {
			return nil, err
		}
		items = append(items, model)
	}

	return &gqlmodels.MaterialList{
		Items:      items,
		TotalCount: int32(total),
		PageInfo: &gqlmodels.PageInfo{
			PageSize:    int32(ps),
			CurrentPage: int32(cp),
			TotalPages:  int32(totalPages(total, ps)),
		},
	}, nil
}

// Material returns a single material by code. Composites include their
// composition entries.
func (r *QueryResolver) Material(ctx context.Context, code string) (*gqlmodels.Material, error) {
	mat, err := r.materials.FindByCode(code)
	if err != nil {
		return nil, err
	}
	model, err := materialToModel(*mat)
	if err != nil {
		return nil, err
	}
	if mat.IsComposite {
		details, err := r.composition.GetComponentDetails(mat.MaterialID)
		if err != nil {
			return nil, err
		}
		components := make([]*gqlmodels.Component, 0, len(details))
		for _, d := range details {
			components = append(components, componentToModel(d))
		}
		model.Components = &components
	}
	return model, nil
}

func paginateMaterials(items []materialEntity.Material, currentPage, pageSize int) []materialEntity.Material {
	total := len(items)
	start := (currentPage - 1) * pageSize
	end := start + pageSize
	if start >= total {
		return nil
	}
	if end > total {
		end = total
	}
	return items[start:end]
}
