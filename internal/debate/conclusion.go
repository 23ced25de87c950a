package debate

// RiskSeverity grades a risk identified during the debate.
type RiskSeverity string

const (
	SeverityLow      RiskSeverity = "low"
	SeverityMedium   RiskSeverity = "medium"
	SeverityHigh     RiskSeverity = "high"
	SeverityCritical RiskSeverity = "critical"
)

// RiskItem is one entry of a conclusion's risk assessment.
type RiskItem struct {
	Risk       string       `json:"risk"`
	Severity   RiskSeverity `json:"severity"`
	Mitigation string       `json:"mitigation"`
}

// Conclusion is the structured synthesis document produced from a full
// transcript. Conclusion generation always yields a displayable result:
// when the model output cannot be parsed, StrategySummary carries the
// raw text and the structured fields are left empty.
type Conclusion struct {
	StrategySummary     string     `json:"strategySummary"`
	ProfitabilityModel  string     `json:"profitabilityModel"`
	RiskAssessment      []RiskItem `json:"riskAssessment"`
	Constraints         []string   `json:"constraints"`
	ImplementationSteps []string   `json:"implementationSteps"`
	OpenQuestions       []string   `json:"openQuestions"`
}
