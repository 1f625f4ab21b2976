package resolvers

func defaultPageSize(p *int) int {
	if p != nil && *p > 0 {
		return *p
	}
	return 20
}

func defaultCurrentPage(p *int) int {
	if p != nil && *p > 0 {
		return *p
	}
	return 1
}

func totalPages(total, pageSize int) int {
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
