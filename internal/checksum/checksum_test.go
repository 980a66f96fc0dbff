package checksum

import "testing"

func TestSum(t *testing.T) {
	// SHA-256 of the empty input.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestMatches(t *testing.T) {
	data := []byte("name: s\n")
	sum := Sum(data)
	tests := []struct {
		ifMatch string
		want    bool
	}{
		{"", true},
		{sum, true},
		{`"` + sum + `"`, true},
		{"*", true},
		{" * ", true},
		{`"*"`, false},
		{"stale", false},
	}
	for _, tt := range tests {
		if got := Matches(data, tt.ifMatch); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.ifMatch, got, tt.want)
		}
	}
}
