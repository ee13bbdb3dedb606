package dto

import "github.com/SscSPs/dues_ledger/internal/core/domain"

// CategoryResponse is a category as listed by the API.
type CategoryResponse struct {
	CategoryID int64  `json:"categoryID"`
	Name       string `json:"name"`
	Recurring  bool   `json:"recurring"`
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToListCategoriesResponse converts domain categories to their response DTO.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = CategoryResponse{CategoryID: c.CategoryID, Name: c.Name, Recurring: c.Recurring}
	}
	return ListCategoriesResponse{Categories: responses}
}
