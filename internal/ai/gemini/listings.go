package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
)

const defaultListingsCount = 3

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) (string, error)
}

// ListingGenerator asks the model to synthesize plausible postings for a search URL.
type ListingGenerator struct {
	generator jsonGenerator
	model     string
	count     int
	logger    *zap.Logger
}

var _ ai.ListingGenerator = (*ListingGenerator)(nil)

func NewListingGenerator(generator jsonGenerator, model string, log *zap.Logger) *ListingGenerator {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultListingsModel
	}

	return &ListingGenerator{
		generator: generator,
		model:     model,
		count:     defaultListingsCount,
		logger:    logger.WithCommonFields(log, provider, model),
	}
}

func (l *ListingGenerator) GenerateListings(ctx context.Context, ref string) (*jobs.Postings, error) {
	prompt := buildListingsPrompt(ref, l.count)

	raw, err := l.generator.GenerateJSON(ctx, l.model, prompt, listingsSchema())
	if err != nil {
		l.logger.Error("generating job listings", zap.String("ref", ref), zap.Error(err))
		return nil, &ai.ListingError{Err: err}
	}

	postings, err := parseListings(raw)
	if err != nil {
		l.logger.Error("parsing job listings", zap.String("ref", ref), zap.Error(err))
		return nil, &ai.ListingError{Err: err}
	}

	l.logger.Debug("job listings generated",
		zap.Int("count", postings.Len()),
		zap.Strings("titles", postings.Titles()),
	)

	return postings, nil
}

func parseListings(raw string) (*jobs.Postings, error) {
	var items []map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &items); err != nil {
		return nil, fmt.Errorf("parse gemini listings response: %w", err)
	}

	var postings []*jobs.Posting
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &postings,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("create listings decoder: %w", err)
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode gemini listings: %w", err)
	}

	for idx, posting := range postings {
		if posting == nil {
			return nil, fmt.Errorf("posting %d is empty", idx)
		}
		posting.Normalize()
		if err := jobs.Validate(posting); err != nil {
			return nil, fmt.Errorf("posting %d: %w", idx, err)
		}
	}

	return &jobs.Postings{Items: postings}, nil
}
