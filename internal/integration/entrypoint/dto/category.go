package dto

import (
	"time"

	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

// CreateCategoryRequest represents the request body for category creation.
// Type is required for root categories; children inherit it from the parent.
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=50"`
	ParentID *string `json:"parent_id,omitempty" binding:"omitempty,uuid"`
	Type     string  `json:"type,omitempty" binding:"omitempty,category_type"`
}

// UpdateCategoryRequest represents the request body for category update.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	ParentID  *string             `json:"parent_id"`
	Level     int                 `json:"level"`
	Path      []string            `json:"path"`
	Type      string              `json:"type"`
	Children  []*CategoryResponse `json:"children,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []*CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) *CategoryResponse {
	var parentID *string
	if cat.ParentID != nil {
		id := cat.ParentID.String()
		parentID = &id
	}

	path := make([]string, len(cat.Path))
	for i, id := range cat.Path {
		path[i] = id.String()
	}

	return &CategoryResponse{
		ID:        cat.ID.String(),
		Name:      cat.Name,
		ParentID:  parentID,
		Level:     cat.Level,
		Path:      path,
		Type:      string(cat.Type),
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

// ToCategoryListResponse converts a flat list of categories.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	items := make([]*CategoryResponse, len(categories))
	for i, cat := range categories {
		items[i] = ToCategoryResponse(cat)
	}
	return CategoryListResponse{Categories: items}
}

// ToCategoryTreeResponse converts the nested tree view. Leaf nodes carry an empty children list.
func ToCategoryTreeResponse(tree []*valueobject.NestedCategory) CategoryListResponse {
	var convert func(*valueobject.NestedCategory) *CategoryResponse
	convert = func(n *valueobject.NestedCategory) *CategoryResponse {
		resp := ToCategoryResponse(n.Category)
		resp.Children = make([]*CategoryResponse, 0, len(n.Children))
		for _, child := range n.Children {
			resp.Children = append(resp.Children, convert(child))
		}
		return resp
	}

	items := make([]*CategoryResponse, len(tree))
	for i, n := range tree {
		items[i] = convert(n)
	}
	return CategoryListResponse{Categories: items}
}
