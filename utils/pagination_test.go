package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(3, 10, 57)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 10, p.Take)
	assert.Equal(t, 20, p.Skip)
	assert.Equal(t, 57, p.Total)
	assert.Equal(t, 6, p.TotalPage)
}

func TestNewPaginationExactPages(t *testing.T) {
	p := NewPagination(1, 10, 50)

	assert.Equal(t, 5, p.TotalPage)
}

func TestNewPaginationNormalizesInput(t *testing.T) {
	p := NewPagination(0, -5, 7)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, 7, p.TotalPage)
}

func TestNewPaginationEmptyResult(t *testing.T) {
	p := NewPagination(1, 10, 0)

	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.TotalPage)
}
