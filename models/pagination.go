package models

// Pagination carries paging input and the derived query window.
type Pagination struct {
	Page      int `json:"page"`
	PerPage   int `json:"per_page"`
	Take      int `json:"take"`
	Skip      int `json:"skip"`
	Total     int `json:"total"`
	TotalPage int `json:"total_page"`
}

// ListFilter is the common query shape for reference-entity listings.
type ListFilter struct {
	All          bool         `form:"all" json:"all"`
	Page         int          `form:"page" json:"page"`
	PerPage      int          `form:"per_page" json:"per_page"`
	Search       string       `form:"search" json:"search"`
	Status       EntityStatus `form:"status" json:"status"`
	LanguageCode LanguageCode `form:"language_code" json:"language_code"`
}
