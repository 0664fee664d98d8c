package speech

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Keep your elbows in", "Keep your elbows in"},
		{"bold", "**Squeeze** at the top", "Squeeze at the top"},
		{"italic and underscore", "*slow* _and_ controlled", "slow and controlled"},
		{"warning emoji", "⚠️ elbow drifting", "Warning: elbow drifting"},
		{"check and cross", "✅ good rep ❌ bad rep", "good rep bad rep"},
		{"whitespace collapse", "  too   many\n spaces\t", "too many spaces"},
		{"markup only", "** ** __", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
