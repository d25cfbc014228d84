package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOptionsDefaults(t *testing.T) {
	n := PageOptions{}.Normalized()

	assert.Equal(t, int64(1), n.Page)
	assert.Equal(t, int64(10), n.Limit)
	assert.Equal(t, "created_dt", n.SortField)
	assert.Equal(t, SortAscending, n.SortOrder)
}

func TestPageOptionsSkip(t *testing.T) {
	assert.Equal(t, int64(0), PageOptions{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, int64(20), PageOptions{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, int64(0), PageOptions{}.Skip())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(PageOptions{Page: 3, Limit: 10}, 25)

	assert.Equal(t, int64(3), p.Page)
	assert.Equal(t, int64(25), p.TotalRecords)
	assert.Equal(t, int64(3), p.TotalPages)

	exact := NewPagination(PageOptions{Limit: 5}, 25)
	assert.Equal(t, int64(5), exact.TotalPages)
}
