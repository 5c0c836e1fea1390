package references

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "comma separated list",
			content: "Fysiotherapie wordt vergoed vanaf pakket B.\n\nReferences: PolicyA.pdf, PolicyB.pdf",
			want:    []string{"PolicyA.pdf", "PolicyB.pdf"},
		},
		{
			name:    "semicolon separated list",
			content: "References: PolicyA.pdf; PolicyB.pdf",
			want:    []string{"PolicyA.pdf", "PolicyB.pdf"},
		},
		{
			name:    "case insensitive label",
			content: "Some answer.\nreferences: Coverage.pdf",
			want:    []string{"Coverage.pdf"},
		},
		{
			name:    "stops at newline",
			content: "References: PolicyA.pdf\nThis trailing text is not a reference.",
			want:    []string{"PolicyA.pdf"},
		},
		{
			name:    "single reference",
			content: "References: Vergoedingen2026.pdf",
			want:    []string{"Vergoedingen2026.pdf"},
		},
		{
			name:    "no label present",
			content: "An answer without any citations.",
			want:    []string{},
		},
		{
			name:    "label with empty list",
			content: "References: ",
			want:    []string{},
		},
		{
			name:    "blank entries are dropped",
			content: "References: PolicyA.pdf, , PolicyB.pdf,",
			want:    []string{"PolicyA.pdf", "PolicyB.pdf"},
		},
		{
			name:    "empty content",
			content: "",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content)
			if got == nil {
				t.Fatal("Extract() returned nil, want a slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Extract() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Extract()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
