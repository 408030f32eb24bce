package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRut(t *testing.T) {
	tests := []struct {
		name string
		rut  string
		want string
	}{
		{name: "Dotted form", rut: "11.111.111-1", want: "111111111"},
		{name: "Hyphenated form", rut: "11111111-1", want: "111111111"},
		{name: "Bare form", rut: "111111111", want: "111111111"},
		{name: "Lowercase check digit", rut: "7.775.777-k", want: "7775777K"},
		{name: "With spaces", rut: " 11.111.111-1 ", want: "111111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRut(tt.rut))
		})
	}
}

func TestFormatRut(t *testing.T) {
	tests := []struct {
		name string
		rut  string
		want string
	}{
		{name: "Already formatted", rut: "11.111.111-1", want: "11.111.111-1"},
		{name: "Bare form", rut: "111111111", want: "11.111.111-1"},
		{name: "Seven digit body", rut: "7775777-K", want: "7.775.777-K"},
		{name: "Lowercase check digit", rut: "7775777k", want: "7.775.777-K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRut(tt.rut))
		})
	}
}

func TestIsValidRut(t *testing.T) {
	tests := []struct {
		name string
		rut  string
		want bool
	}{
		{name: "Valid dotted", rut: "11.111.111-1", want: true},
		{name: "Valid bare", rut: "111111111", want: true},
		{name: "Wrong check digit", rut: "11.111.111-2", want: false},
		{name: "Non numeric body", rut: "11.111.11a-1", want: false},
		{name: "Empty", rut: "", want: false},
		{name: "Too short", rut: "1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRut(tt.rut))
		})
	}
}
