package signal

// #region risk-level

// RiskLevel grades the risk of the task the user is working on.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// #endregion risk-level

// #region vector

// Vector is the fixed-schema signal record for one conversational turn,
// produced by the upstream feature extractor. Scaled fields run 0-3.
// Unknown JSON fields are ignored; missing fields take their zero value.
type Vector struct {
	DecompositionEvidence    int       `json:"decomposition_evidence"`
	GoalClarity              int       `json:"goal_clarity"`
	StrategyMentioned        bool      `json:"strategy_mentioned"`
	VerificationAttempted    bool      `json:"verification_attempted"`
	ContextAwareness         int       `json:"context_awareness"`
	OutputEvaluationPresent  bool      `json:"output_evaluation_present"`
	ReflectionDepth          int       `json:"reflection_depth"`
	CapabilityJudgmentShown  bool      `json:"capability_judgment_shown"`
	IterationCount           int       `json:"iteration_count"`
	TrustCalibrationEvidence []string  `json:"trust_calibration_evidence"`
	TaskComplexity           int       `json:"task_complexity"`
	AIRelianceDegree         int       `json:"ai_reliance_degree"`
	TaskRiskLevel            RiskLevel `json:"task_risk_level"`
}

// #endregion vector
