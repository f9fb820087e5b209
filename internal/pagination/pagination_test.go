package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	p := Params{}
	p.Normalize()

	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestNormalizeCapsPageSize(t *testing.T) {
	p := Params{Page: 2, PageSize: 500}
	p.Normalize()

	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 100, p.Offset())
}

func TestNormalizeNegativeValues(t *testing.T) {
	p := Params{Page: -3, PageSize: -1}
	p.Normalize()

	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestNewPageNeverNilItems(t *testing.T) {
	page := NewPage[string](nil, 0, Params{Page: 1, PageSize: 10})

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 0, page.Total)
}
