package services

import (
	"testing"

	"equipment-system/internal/dto"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id uint64, parentID null.Uint64, name string) *dto.EquipmentNodeDTO {
	return &dto.EquipmentNodeDTO{ID: id, ParentID: parentID, Name: name}
}

func TestBuildTree(t *testing.T) {
	rows := []*dto.EquipmentNodeDTO{
		node(1, null.Uint64{}, "корень A"),
		node(2, null.Uint64{}, "корень B"),
		node(3, null.Uint64From(1), "ребенок A1"),
		node(4, null.Uint64From(3), "внук A1a"),
		node(5, null.Uint64From(1), "ребенок A2"),
	}

	tree := buildTree(rows, null.Uint64{})
	require.Len(t, tree, 2)
	assert.Equal(t, "корень A", tree[0].Name)
	require.Len(t, tree[0].Children, 2)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "внук A1a", tree[0].Children[0].Children[0].Name)
	assert.Empty(t, tree[1].Children)
}

func TestBuildTree_SubtreeRoot(t *testing.T) {
	// Выборка поддерева: вершины верхнего уровня ссылаются на корень,
	// которого в срезе нет.
	rows := []*dto.EquipmentNodeDTO{
		node(10, null.Uint64From(1), "ребенок"),
		node(11, null.Uint64From(10), "внук"),
	}

	tree := buildTree(rows, null.Uint64From(1))
	require.Len(t, tree, 1)
	assert.Equal(t, "ребенок", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
}

func TestBuildTree_Empty(t *testing.T) {
	tree := buildTree(nil, null.Uint64{})
	assert.Empty(t, tree)
}

func TestSameParent(t *testing.T) {
	assert.True(t, sameParent(null.Uint64{}, null.Uint64{}))
	assert.True(t, sameParent(null.Uint64From(5), null.Uint64From(5)))
	assert.False(t, sameParent(null.Uint64From(5), null.Uint64From(6)))
	assert.False(t, sameParent(null.Uint64{}, null.Uint64From(5)))
}
