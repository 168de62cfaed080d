package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
)

// Analyzer scores a CV against a posting and returns a tailored rewrite.
type Analyzer struct {
	generator jsonGenerator
	model     string
	logger    *zap.Logger
}

var _ ai.MatchAnalyzer = (*Analyzer)(nil)

func NewAnalyzer(generator jsonGenerator, model string, log *zap.Logger) *Analyzer {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultAnalysisModel
	}

	return &Analyzer{
		generator: generator,
		model:     model,
		logger:    logger.WithCommonFields(log, provider, model),
	}
}

func (a *Analyzer) AnalyzeMatch(ctx context.Context, job *jobs.Posting, cv string) (*jobs.MatchAnalysis, error) {
	if job == nil {
		return nil, &ai.AnalysisError{Err: errors.New("job posting is required")}
	}

	raw, err := a.generator.GenerateJSON(ctx, a.model, buildAnalysisPrompt(job, cv), analysisSchema())
	if err != nil {
		a.logger.Error("analyzing job", zap.String(logger.FieldJobTitle, job.Title), zap.Error(err))
		return nil, &ai.AnalysisError{Title: job.Title, Err: err}
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		a.logger.Error("parsing job analysis", zap.String(logger.FieldJobTitle, job.Title), zap.Error(err))
		return nil, &ai.AnalysisError{Title: job.Title, Err: err}
	}

	a.logger.Debug("job analyzed",
		zap.String(logger.FieldJobTitle, job.Title),
		zap.Int("match_score", analysis.MatchScore),
	)

	return analysis, nil
}

func parseAnalysis(raw string) (*jobs.MatchAnalysis, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini analysis response: %w", err)
	}

	score := coerceFloat(data["matchScore"])
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, fmt.Errorf("match score is missing or not a number: %v", data["matchScore"])
	}
	// Scores must be whole numbers; fractions are malformed, not rounded.
	if score != math.Trunc(score) {
		return nil, fmt.Errorf("match score is not an integer: %v", data["matchScore"])
	}

	analysis := &jobs.MatchAnalysis{
		MatchScore:   int(score),
		MatchSummary: coerceString(data["matchSummary"]),
		CustomizedCV: coerceString(data["customizedCV"]),
	}

	if err := jobs.Validate(analysis); err != nil {
		return nil, err
	}

	return analysis, nil
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
