package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []Option
	}{
		{
			name: "plain strings",
			data: `["beauty","home-decoration"]`,
			want: []Option{
				{Value: "beauty", Label: "beauty"},
				{Value: "home-decoration", Label: "home-decoration"},
			},
		},
		{
			name: "objects with slug and name",
			data: `[{"slug":"beauty","name":"Beauty","url":"https://x/beauty"}]`,
			want: []Option{{Value: "beauty", Label: "Beauty"}},
		},
		{
			name: "value takes precedence over slug",
			data: `[{"value":"v","slug":"s","name":"N"}]`,
			want: []Option{{Value: "v", Label: "N"}},
		},
		{
			name: "label used when name absent",
			data: `[{"slug":"fragrances","label":"Fragrances"}]`,
			want: []Option{{Value: "fragrances", Label: "Fragrances"}},
		},
		{
			name: "label falls back to resolved value",
			data: `[{"value":"groceries"}]`,
			want: []Option{{Value: "groceries", Label: "groceries"}},
		},
		{
			name: "mixed shapes preserve order without dedup",
			data: `["beauty",{"slug":"beauty","name":"Beauty"},"beauty"]`,
			want: []Option{
				{Value: "beauty", Label: "beauty"},
				{Value: "beauty", Label: "Beauty"},
				{Value: "beauty", Label: "beauty"},
			},
		},
		{
			name: "non-string scalars stringified",
			data: `[42,true,null]`,
			want: []Option{
				{Value: "42", Label: "42"},
				{Value: "true", Label: "true"},
				{Value: "null", Label: "null"},
			},
		},
		{
			name: "object with no usable keys keeps raw text",
			data: `[{"url":42}]`,
			want: []Option{{Value: `{"url":42}`, Label: `{"url":42}`}},
		},
		{
			name: "empty array",
			data: `[]`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize([]byte(`{"not":"an array"}`))
	require.Error(t, err)

	_, err = Normalize([]byte(`[`))
	require.Error(t, err)
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "beauty", want: "Beauty"},
		{in: "home-decoration", want: "Home Decoration"},
		{in: "mens-shirts", want: "Mens Shirts"},
		{in: "already Capitalized", want: "Already Capitalized"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLabel(tt.in), "FormatLabel(%q)", tt.in)
	}
}
