package classifier

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Winckwu/Interview-GenAI-sub003/internal/estimator"
	"github.com/Winckwu/Interview-GenAI-sub003/internal/signal"
)

// #endregion

// #region config

// Config holds connection parameters for the SVM classifier sidecar.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Enabled bool
}

// DefaultConfig returns sidecar defaults, overridable via env vars:
// SVM_CLASSIFIER_URL, SVM_CLASSIFIER_TIMEOUT, SVM_CLASSIFIER_ENABLED.
func DefaultConfig() Config {
	cfg := Config{
		BaseURL: "http://localhost:5002",
		Timeout: 2 * time.Second,
		Enabled: true,
	}
	if v := os.Getenv("SVM_CLASSIFIER_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SVM_CLASSIFIER_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.Timeout = time.Duration(sec) * time.Second
		}
	}
	if v := os.Getenv("SVM_CLASSIFIER_ENABLED"); v != "" {
		cfg.Enabled = v == "true" || v == "1"
	}
	return cfg
}

// #endregion config

// #region client

// Client calls the Python SVM sidecar over its JSON/HTTP contract. Any
// error from Classify means "secondary unavailable"; callers degrade to the
// primary estimate and never block on this service.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a sidecar client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// #endregion client

// #region wire-types

// predictRequest mirrors the sidecar's /predict request body. Feature keys
// follow the trained model's p/m/e/r column order.
type predictRequest struct {
	Signals map[string]int `json:"signals"`
}

type predictResponse struct {
	Pattern       string             `json:"pattern"`
	Probabilities map[string]float64 `json:"probabilities"`
	Confidence    float64            `json:"confidence"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// #endregion wire-types

// #region classify

// Classify sends the signal vector to /predict and returns the secondary
// estimate.
func (c *Client) Classify(ctx context.Context, v signal.Vector) (estimator.PatternEstimate, error) {
	if !c.config.Enabled {
		return estimator.PatternEstimate{}, fmt.Errorf("svm classifier disabled")
	}

	body, err := json.Marshal(predictRequest{Signals: featureColumns(v)})
	if err != nil {
		return estimator.PatternEstimate{}, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return estimator.PatternEstimate{}, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return estimator.PatternEstimate{}, fmt.Errorf("predict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return estimator.PatternEstimate{}, fmt.Errorf("predict: status %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return estimator.PatternEstimate{}, fmt.Errorf("decode predict response: %w", err)
	}

	probs := make(map[estimator.Category]float64, len(estimator.Categories))
	for _, cat := range estimator.Categories {
		probs[cat] = pr.Probabilities[string(cat)]
	}
	top, conf := estimator.ArgMax(probs)

	return estimator.PatternEstimate{
		Probabilities: probs,
		TopCategory:   top,
		Confidence:    conf,
		Timestamp:     time.Now(),
	}, nil
}

// #endregion classify

// #region health

// Healthy probes the sidecar's /health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return false
	}
	return hr.Status == "ok" && hr.ModelLoaded
}

// #endregion health

// #region feature-columns

// featureColumns flattens the vector into the 12 p/m/e/r columns the model
// was trained on. Booleans scale to 0/3 like the annotated dataset.
func featureColumns(v signal.Vector) map[string]int {
	v = signal.Clamp(v)
	iter := v.IterationCount
	if iter > 3 {
		iter = 3
	}
	trust := len(v.TrustCalibrationEvidence)
	if trust > 3 {
		trust = 3
	}
	return map[string]int{
		"p1": v.DecompositionEvidence,
		"p2": v.GoalClarity,
		"p3": boolScale(v.StrategyMentioned),
		"p4": v.TaskComplexity,
		"m1": boolScale(v.VerificationAttempted),
		"m2": v.ContextAwareness,
		"m3": iter,
		"e1": boolScale(v.OutputEvaluationPresent),
		"e2": v.ReflectionDepth,
		"e3": boolScale(v.CapabilityJudgmentShown),
		"r1": 3 - v.AIRelianceDegree,
		"r2": trust,
	}
}

func boolScale(b bool) int {
	if b {
		return 3
	}
	return 0
}

// #endregion feature-columns
