// Package routing maps a classified intent decision to the agents that should
// handle the turn. The table is static; given the same decision the policy
// always selects the same agent names.
package routing

import (
	"strings"

	"carechat-be/pkg/intent"
)

const (
	AgentFAQ   = "FAQAgent"
	AgentAdmin = "AdminAgent"
)

type Policy struct {
	intentRules     map[string]string
	entityOverrides map[string]string
	defaultAgent    string
}

// DefaultPolicy builds the healthcare routing table. Administrative entities
// (appointments, complaints) force the admin agent regardless of the top
// intent; otherwise the intent rule applies, with the FAQ agent as default.
func DefaultPolicy() *Policy {
	return &Policy{
		intentRules: map[string]string{
			"informatievergoedingen": AgentFAQ,
			"declaratieindienen":     AgentFAQ,
			"adviesverzekering":      AgentFAQ,
			"informatiepremie":       AgentFAQ,
			"klachtindienen":         AgentAdmin,
		},
		entityOverrides: map[string]string{
			"afspraak":    AgentAdmin,
			"appointment": AgentAdmin,
			"klacht":      AgentAdmin,
			"complaint":   AgentAdmin,
		},
		defaultAgent: AgentFAQ,
	}
}

// Resolve returns the ordered agent names for the decision. The slice is
// never empty.
func (p *Policy) Resolve(decision *intent.Decision) []string {
	if decision == nil {
		return []string{p.defaultAgent}
	}

	for _, entity := range decision.Entities {
		if agent, ok := p.entityOverrides[strings.ToLower(entity.Category)]; ok {
			return []string{agent}
		}
		// Entity text can carry the signal even when the category is generic
		if agent, ok := p.entityOverrides[strings.ToLower(strings.TrimSpace(entity.Text))]; ok {
			return []string{agent}
		}
	}

	if agent, ok := p.intentRules[strings.ToLower(decision.TopIntent)]; ok {
		return []string{agent}
	}

	return []string{p.defaultAgent}
}
