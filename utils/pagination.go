package utils

import "github.com/ccenter-uz/1009-organization-service-sub000/models"

// NewPagination computes the query window and total page count for a
// listing. Page and perPage are normalized to at least 1; count is the total
// number of matching rows.
func NewPagination(page, perPage, count int) models.Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	totalPage := count / perPage
	if count%perPage != 0 {
		totalPage++
	}

	return models.Pagination{
		Page:      page,
		PerPage:   perPage,
		Take:      perPage,
		Skip:      (page - 1) * perPage,
		Total:     count,
		TotalPage: totalPage,
	}
}
