package domain

// PlanMetadata describes a plan file.
type PlanMetadata struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Currency    string `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// Plan is the full engine input as loaded from a YAML plan file: the
// asset snapshot, the projection parameters, the tax rule sets, and the
// deployment defaults.
type Plan struct {
	Metadata    PlanMetadata     `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Defaults    *EngineDefaults  `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Assets      []AssetRecord    `yaml:"assets" json:"assets"`
	Projection  ProjectionConfig `yaml:"projection" json:"projection"`
	TaxRuleSets []TaxRuleSet     `yaml:"taxRuleSets,omitempty" json:"taxRuleSets,omitempty"`
}

// EngineDefaultsOrStock returns the plan's defaults, or the stock
// defaults when the plan carries none.
func (p *Plan) EngineDefaultsOrStock() EngineDefaults {
	if p.Defaults != nil {
		return *p.Defaults
	}
	return NewEngineDefaults()
}
