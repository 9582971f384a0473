package valueobject

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

func category(name string, parent *entity.Category) *entity.Category {
	return entity.NewCategory(uuid.New(), name, entity.CategoryTypeExpense, parent)
}

func TestBuildCategoryTree(t *testing.T) {
	food := category("Food", nil)
	groceries := category("Groceries", food)
	fruit := category("Fruit", groceries)
	dining := category("Dining", food)
	travel := category("Travel", nil)

	tree := BuildCategoryTree([]*entity.Category{fruit, dining, travel, groceries, food})

	t.Run("roots are categories without parent", func(t *testing.T) {
		roots := tree.Roots()
		if len(roots) != 2 {
			t.Fatalf("expected 2 roots, got %d", len(roots))
		}
		if !containsID(roots, food.ID) || !containsID(roots, travel.ID) {
			t.Errorf("unexpected roots %v", roots)
		}
	})

	t.Run("children are linked by id", func(t *testing.T) {
		children := tree.Children(food.ID)
		if len(children) != 2 || !containsID(children, groceries.ID) || !containsID(children, dining.ID) {
			t.Errorf("unexpected children of food: %v", children)
		}
		if got := tree.Children(groceries.ID); len(got) != 1 || got[0] != fruit.ID {
			t.Errorf("unexpected children of groceries: %v", got)
		}
	})

	t.Run("subtree includes all descendants", func(t *testing.T) {
		sub := tree.Subtree(food.ID)
		if len(sub) != 4 {
			t.Errorf("expected 4 ids in subtree, got %d", len(sub))
		}
		if sub[0] != food.ID {
			t.Errorf("subtree should start with its root")
		}
	})

	t.Run("leaf detection", func(t *testing.T) {
		if !tree.IsLeaf(fruit.ID) || tree.IsLeaf(groceries.ID) {
			t.Error("unexpected leaf classification")
		}
	})
}

func TestBuildCategoryTree_OrphansAreDropped(t *testing.T) {
	missing := category("Deleted", nil)
	orphan := category("Orphan", missing)
	root := category("Root", nil)

	tree := BuildCategoryTree([]*entity.Category{orphan, root})

	if _, ok := tree.Node(orphan.ID); !ok {
		t.Fatal("orphan should remain in the index")
	}
	if containsID(tree.Roots(), orphan.ID) {
		t.Error("orphan must not be promoted to a root")
	}
	if len(tree.Roots()) != 1 {
		t.Errorf("expected a single root, got %d", len(tree.Roots()))
	}
	if len(tree.Nested()) != 1 {
		t.Errorf("nested view should only contain the rooted tree")
	}
}

func TestBuildCategoryTree_CyclicParentsTerminate(t *testing.T) {
	a := category("A", nil)
	b := category("B", a)
	aParent := b.ID
	a.ParentID = &aParent

	tree := BuildCategoryTree([]*entity.Category{a, b})

	if len(tree.Roots()) != 0 {
		t.Errorf("cycle has no root, got %v", tree.Roots())
	}
	if sub := tree.Subtree(a.ID); len(sub) != 2 {
		t.Errorf("expected cycle subtree of 2 ids, got %v", sub)
	}
}

func TestBuildCategoryTree_OrderIndependent(t *testing.T) {
	income := entity.NewCategory(uuid.New(), "Salary", entity.CategoryTypeIncome, nil)
	bonus := entity.NewCategory(uuid.New(), "Bonus", entity.CategoryTypeIncome, income)
	food := category("Food", nil)
	groceries := category("Groceries", food)
	fruit := category("Fruit", groceries)
	orphan := category("Orphan", category("Gone", nil))

	base := []*entity.Category{income, bonus, food, groceries, fruit, orphan}
	want := snapshot(BuildCategoryTree(base))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]*entity.Category(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := snapshot(BuildCategoryTree(shuffled))
		if len(got) != len(want) {
			t.Fatalf("permutation %d: node count differs", i)
		}
		for key, children := range want {
			if got[key] != children {
				t.Errorf("permutation %d: node %s children %q, want %q", i, key, got[key], children)
			}
		}
	}
}

// snapshot maps every node (and the synthetic "roots" key) to its sorted child list.
func snapshot(tree *CategoryTree) map[string]string {
	out := map[string]string{"roots": sortedJoin(tree.Roots())}
	for _, id := range tree.IDs() {
		out[id.String()] = sortedJoin(tree.Children(id))
	}
	return out
}

func sortedJoin(ids []uuid.UUID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	sort.Strings(strs)
	joined := ""
	for _, s := range strs {
		joined += s + ";"
	}
	return joined
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
