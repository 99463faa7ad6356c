package http

// ModelPricing contains pricing information for a model.
type ModelPricing struct {
	InputPer1M  float64 // cost per 1M input tokens in USD
	OutputPer1M float64 // cost per 1M output tokens in USD
}

// DefaultPricing calculates API costs based on token usage.
type DefaultPricing struct {
	prices map[string]ModelPricing
}

// NewDefaultPricing creates a pricing calculator with current OpenAI rates.
// Review runs are billable, so the per-run cost lands in logs and artifacts.
func NewDefaultPricing() *DefaultPricing {
	return &DefaultPricing{prices: buildPricingTable()}
}

// GetCost calculates the cost for a call. Unknown models cost 0.
func (p *DefaultPricing) GetCost(model string, tokensIn, tokensOut int) float64 {
	modelPrice, ok := p.prices[model]
	if !ok {
		return 0.0
	}
	inputCost := float64(tokensIn) / 1_000_000.0 * modelPrice.InputPer1M
	outputCost := float64(tokensOut) / 1_000_000.0 * modelPrice.OutputPer1M
	return inputCost + outputCost
}

// buildPricingTable returns per-model rates.
// Source: https://openai.com/api/pricing/
func buildPricingTable() map[string]ModelPricing {
	return map[string]ModelPricing{
		"o3": {
			InputPer1M:  2.00,
			OutputPer1M: 8.00,
		},
		"o3-mini": {
			InputPer1M:  1.10,
			OutputPer1M: 4.40,
		},
		"o4-mini": {
			InputPer1M:  1.10,
			OutputPer1M: 4.40,
		},
		"gpt-4o": {
			InputPer1M:  2.50,
			OutputPer1M: 10.00,
		},
		"gpt-4o-mini": {
			InputPer1M:  0.15,
			OutputPer1M: 0.60,
		},
		"gpt-4.1": {
			InputPer1M:  2.00,
			OutputPer1M: 8.00,
		},
		"gpt-4.1-mini": {
			InputPer1M:  0.40,
			OutputPer1M: 1.60,
		},
	}
}
