package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "empty", raw: "", want: "", wantOK: false},
		{name: "local number", raw: "0771234567", want: "+94771234567", wantOK: true},
		{name: "international", raw: "+447911123456", want: "+447911123456", wantOK: true},
		{name: "bare zero", raw: "0", want: "+94", wantOK: true},
		{name: "no validation", raw: "abc", want: "abc", wantOK: true},
		{name: "leading space kept", raw: " 0771234567", want: " 0771234567", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
