package valueobject

import (
	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// CategoryTreeNode is a category positioned in the tree. Links are ids into the
// owning CategoryTree, never pointers to other nodes.
type CategoryTreeNode struct {
	ID       uuid.UUID
	Name     string
	Type     entity.CategoryType
	Level    int
	ParentID *uuid.UUID
	Children []uuid.UUID
	Category *entity.Category
}

// CategoryTree is an id-indexed arena of category nodes.
// Nodes whose parent is missing stay in the index but are neither roots nor children.
type CategoryTree struct {
	roots []uuid.UUID
	order []uuid.UUID
	index map[uuid.UUID]*CategoryTreeNode
}

// NestedCategory is a recursive rendering of a tree node for presentation.
type NestedCategory struct {
	Category *entity.Category
	Children []*NestedCategory
}

// BuildCategoryTree builds the tree in two passes: index every category, then link
// each node under its parent by id. Child order follows input order.
func BuildCategoryTree(categories []*entity.Category) *CategoryTree {
	t := &CategoryTree{
		index: make(map[uuid.UUID]*CategoryTreeNode, len(categories)),
	}

	for _, c := range categories {
		if c == nil {
			continue
		}
		if _, exists := t.index[c.ID]; exists {
			continue
		}
		var parentID *uuid.UUID
		if c.ParentID != nil {
			id := *c.ParentID
			parentID = &id
		}
		t.index[c.ID] = &CategoryTreeNode{
			ID:       c.ID,
			Name:     c.Name,
			Type:     c.Type,
			Level:    c.Level,
			ParentID: parentID,
			Category: c,
		}
		t.order = append(t.order, c.ID)
	}

	for _, id := range t.order {
		node := t.index[id]
		if node.ParentID == nil {
			t.roots = append(t.roots, id)
			continue
		}
		if *node.ParentID == id {
			continue
		}
		parent, ok := t.index[*node.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, id)
	}

	return t
}

// Len returns the number of indexed nodes.
func (t *CategoryTree) Len() int {
	return len(t.index)
}

// Roots returns the ids of categories without a parent, in input order.
func (t *CategoryTree) Roots() []uuid.UUID {
	return append([]uuid.UUID(nil), t.roots...)
}

// IDs returns every indexed id in input order.
func (t *CategoryTree) IDs() []uuid.UUID {
	return append([]uuid.UUID(nil), t.order...)
}

// Node looks up a node by id.
func (t *CategoryTree) Node(id uuid.UUID) (*CategoryTreeNode, bool) {
	n, ok := t.index[id]
	return n, ok
}

// Children returns the direct child ids of id.
func (t *CategoryTree) Children(id uuid.UUID) []uuid.UUID {
	n, ok := t.index[id]
	if !ok {
		return nil
	}
	return append([]uuid.UUID(nil), n.Children...)
}

// IsLeaf reports whether id is indexed and has no children.
func (t *CategoryTree) IsLeaf(id uuid.UUID) bool {
	n, ok := t.index[id]
	return ok && len(n.Children) == 0
}

// Subtree returns id followed by all of its descendants, depth first.
// Unknown ids yield just the id itself. Each node appears once even if the
// parent links form a cycle.
func (t *CategoryTree) Subtree(id uuid.UUID) []uuid.UUID {
	result := []uuid.UUID{id}
	if _, ok := t.index[id]; !ok {
		return result
	}

	seen := map[uuid.UUID]bool{id: true}
	var walk func(uuid.UUID)
	walk = func(current uuid.UUID) {
		for _, child := range t.index[current].Children {
			if seen[child] {
				continue
			}
			seen[child] = true
			result = append(result, child)
			walk(child)
		}
	}
	walk(id)

	return result
}

// Nested renders the rooted part of the tree recursively.
func (t *CategoryTree) Nested() []*NestedCategory {
	seen := make(map[uuid.UUID]bool, len(t.index))
	var build func(uuid.UUID) *NestedCategory
	build = func(id uuid.UUID) *NestedCategory {
		seen[id] = true
		node := t.index[id]
		nested := &NestedCategory{Category: node.Category, Children: []*NestedCategory{}}
		for _, child := range node.Children {
			if seen[child] {
				continue
			}
			nested.Children = append(nested.Children, build(child))
		}
		return nested
	}

	result := make([]*NestedCategory, 0, len(t.roots))
	for _, root := range t.roots {
		result = append(result, build(root))
	}
	return result
}
