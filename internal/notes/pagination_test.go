package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginateMiddlePage(t *testing.T) {
	c := Paginate(2, 3, true)
	assert.True(t, c.Visible)
	assert.True(t, c.Allows(1))
	assert.True(t, c.Allows(3))
	assert.False(t, c.Allows(2))
	assert.Equal(t, 1, c.Prev)
	assert.Equal(t, 3, c.Next)
}

func TestPaginateHiddenForSinglePage(t *testing.T) {
	c := Paginate(1, 1, true)
	assert.False(t, c.Visible)
	assert.Empty(t, c.Items)
	assert.False(t, c.Allows(1))
}

func TestPaginateHiddenWithoutResults(t *testing.T) {
	assert.False(t, Paginate(1, 4, false).Visible)
}

func TestPaginateGaps(t *testing.T) {
	c := Paginate(10, 20, true)
	var pages []int
	gaps := 0
	for _, it := range c.Items {
		if it.Gap {
			gaps++
			continue
		}
		pages = append(pages, it.Page)
	}
	assert.Equal(t, []int{1, 8, 9, 10, 11, 12, 20}, pages)
	assert.Equal(t, 2, gaps)
}

func TestPaginateEdges(t *testing.T) {
	first := Paginate(1, 10, true)
	assert.Equal(t, 0, first.Prev)
	assert.Equal(t, 2, first.Next)
	assert.True(t, first.Allows(5))
	assert.True(t, first.Allows(10))
	assert.False(t, first.Allows(6))

	last := Paginate(12, 10, true)
	assert.Equal(t, 10, last.Current)
	assert.Equal(t, 0, last.Next)
	assert.True(t, last.Allows(6))
}
