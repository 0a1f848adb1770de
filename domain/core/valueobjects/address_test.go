package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAddress_TrimsWhitespace(t *testing.T) {
	addr := NewAddress("  123 Main St ", " Springfield", "IL ", " 62704 ")

	assert.Equal(t, "123 Main St", addr.Street)
	assert.Equal(t, "Springfield", addr.City)
	assert.Equal(t, "IL", addr.State)
	assert.Equal(t, "62704", addr.Postal)
}

func TestAddress_IsSearchable(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want bool
	}{
		{"complete with postal", NewAddress("123 Main St", "Springfield", "IL", "62704"), true},
		{"postal optional", NewAddress("123 Main St", "Springfield", "IL", ""), true},
		{"missing street", NewAddress("", "Springfield", "IL", "62704"), false},
		{"missing city", NewAddress("123 Main St", "", "IL", "62704"), false},
		{"missing state", NewAddress("123 Main St", "Springfield", "", "62704"), false},
		{"postal alone is not enough", NewAddress("", "", "", "62704"), false},
		{"empty", Address{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.IsSearchable())
		})
	}
}

func TestAddress_String(t *testing.T) {
	addr := NewAddress("123 Main St", "Springfield", "IL", "62704")
	assert.Equal(t, "123 Main St, Springfield, IL, 62704", addr.String())

	partial := NewAddress("123 Main St", "", "IL", "")
	assert.Equal(t, "123 Main St, IL", partial.String())

	assert.Equal(t, "", Address{}.String())
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, NewAddress("", "", "", "62704").IsZero())
}
