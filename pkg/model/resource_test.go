package model

import "testing"

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"room", "room"},
		{"Room", "room"},
		{"ROOM", "room"},
		{" resource ", "resource"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeKind(tt.in); got != tt.want {
			t.Errorf("NormalizeKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidKind(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{KindRoom, true},
		{KindEquipment, true},
		{"vehicle", false},
		{"Room", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidKind(tt.kind); got != tt.want {
			t.Errorf("IsValidKind(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
