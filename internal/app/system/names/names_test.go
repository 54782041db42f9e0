package names

import "testing"

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"all parts", []string{"John", "A.", "Doe"}, "John A. Doe"},
		{"no middle", []string{"John", "", "Doe"}, "John Doe"},
		{"first only", []string{"John", "", ""}, "John"},
		{"whitespace parts", []string{" John ", "  ", " Doe "}, "John Doe"},
		{"all empty", []string{"", "", ""}, ""},
		{"no parts", nil, ""},
		{"single part", []string{"Cher"}, "Cher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.parts...); got != tt.want {
				t.Errorf("Display(%q) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}
