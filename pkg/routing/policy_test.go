package routing

import (
	"testing"

	"carechat-be/pkg/intent"
)

func TestResolve(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		decision *intent.Decision
		want     []string
	}{
		{
			name:     "reimbursement question routes to FAQ",
			decision: &intent.Decision{TopIntent: "informatieVergoedingen", Confidence: 0.92},
			want:     []string{AgentFAQ},
		},
		{
			name:     "claim submission routes to FAQ",
			decision: &intent.Decision{TopIntent: "declaratieIndienen", Confidence: 0.88},
			want:     []string{AgentFAQ},
		},
		{
			name:     "insurance advice routes to FAQ",
			decision: &intent.Decision{TopIntent: "adviesVerzekering", Confidence: 0.81},
			want:     []string{AgentFAQ},
		},
		{
			name:     "premium information routes to FAQ",
			decision: &intent.Decision{TopIntent: "informatiePremie", Confidence: 0.77},
			want:     []string{AgentFAQ},
		},
		{
			name:     "complaint intent routes to Admin",
			decision: &intent.Decision{TopIntent: "klachtIndienen", Confidence: 0.85},
			want:     []string{AgentAdmin},
		},
		{
			name: "appointment entity forces Admin over FAQ intent",
			decision: &intent.Decision{
				Query:      "Ik wil mijn afspraak annuleren",
				TopIntent:  "informatieVergoedingen",
				Confidence: 0.71,
				Entities: []intent.Entity{
					{Category: "afspraak", Text: "afspraak annuleren", Confidence: 0.9},
				},
			},
			want: []string{AgentAdmin},
		},
		{
			name: "complaint carried only in entity text",
			decision: &intent.Decision{
				TopIntent: "informatiePremie",
				Entities: []intent.Entity{
					{Category: "onderwerp", Text: "klacht", Confidence: 0.6},
				},
			},
			want: []string{AgentAdmin},
		},
		{
			name: "unrelated entity does not override",
			decision: &intent.Decision{
				TopIntent: "informatiePremie",
				Entities: []intent.Entity{
					{Category: "product", Text: "tandarts", Confidence: 0.6},
				},
			},
			want: []string{AgentFAQ},
		},
		{
			name:     "unknown intent falls back to default",
			decision: &intent.Decision{TopIntent: "somethingElse", Confidence: 0.3},
			want:     []string{AgentFAQ},
		},
		{
			name:     "fallback decision routes to FAQ",
			decision: intent.NewFallbackDecision("wat is er vergoed?"),
			want:     []string{AgentFAQ},
		},
		{
			name:     "nil decision still selects an agent",
			decision: nil,
			want:     []string{AgentFAQ},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Resolve(tt.decision)
			if len(got) != len(tt.want) {
				t.Fatalf("Resolve() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Resolve()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	policy := DefaultPolicy()
	decision := &intent.Decision{
		TopIntent: "klachtIndienen",
		Entities:  []intent.Entity{{Category: "klacht", Text: "klacht over declaratie"}},
	}

	first := policy.Resolve(decision)
	for i := 0; i < 100; i++ {
		got := policy.Resolve(decision)
		if len(got) != len(first) || got[0] != first[0] {
			t.Fatalf("iteration %d: Resolve() = %v, want %v", i, got, first)
		}
	}
}
