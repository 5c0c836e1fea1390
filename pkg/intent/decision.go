package intent

// Fallback values used when the language service is unreachable or returns a
// payload we cannot parse. Routing always receives a usable decision.
const (
	FallbackIntent     = "informatieVergoedingen"
	FallbackConfidence = 0.5
)

type Entity struct {
	Category   string  `json:"category"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Decision is the normalized result of one classification call. It has the
// same shape whether it came from the service or from the fallback policy, so
// routing has exactly one code path.
type Decision struct {
	Query      string             `json:"query"`
	TopIntent  string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	AllIntents map[string]float64 `json:"all_intents"`
	Entities   []Entity           `json:"entities"`
}

// NewFallbackDecision builds the fixed substitute decision for a failed
// classification.
func NewFallbackDecision(query string) *Decision {
	return &Decision{
		Query:      query,
		TopIntent:  FallbackIntent,
		Confidence: FallbackConfidence,
		AllIntents: map[string]float64{FallbackIntent: FallbackConfidence},
		Entities:   []Entity{},
	}
}
