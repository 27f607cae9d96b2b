package utils

import (
	"reflect"
	"testing"
)

func TestUnique(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "Test Unique",
			in:   []string{"a", "b", "a", "c"},
			want: []string{"a", "b", "c"},
		},
		{
			name: "Test Unique",
			in:   []string{"a", "a", "a"},
			want: []string{"a"},
		},
		{
			name: "Test Unique",
			in:   []string{"", "a", ""},
			want: []string{"a"},
		},
		{
			name: "Test Unique",
			in:   []string{"c", "b", "a"},
			want: []string{"c", "b", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unique(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unique() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := Pad(3); got != "   " {
		t.Errorf("Pad(3) = %q", got)
	}
	if got := Pad(0); got != " " {
		t.Errorf("Pad(0) = %q", got)
	}
	if got := Pad(-2); got != " " {
		t.Errorf("Pad(-2) = %q", got)
	}
}
