package analyzer

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/bedrock"
)

const (
	optimizerMaxTokens   = 500
	optimizerTemperature = 0.1

	// Results shorter than this are assumed degenerate (e.g. the
	// model returning punctuation only) and trigger the fallback.
	minOptimizedQueryLen = 10
)

// optimizeQuery rewrites a free-form incident description into a
// compact retrieval query. It never fails: any error or degenerate
// result falls back to the original text unchanged, because
// optimization is a best-effort enhancement and must not abort the
// analysis.
func (a *Analyzer) optimizeQuery(ctx context.Context, description string) string {
	resp, err := a.invoker.Invoke(ctx, bedrock.QueryRequest{
		Prompt:      optimizerPrompt(description),
		MaxTokens:   optimizerMaxTokens,
		Temperature: optimizerTemperature,
	})
	if err != nil {
		a.logger.Warn("query optimization failed, using original description", zap.Error(err))
		return description
	}

	optimized := strings.TrimSpace(resp.Response)
	if utf8.RuneCountInString(optimized) < minOptimizedQueryLen {
		a.logger.Warn("query optimization returned a degenerate result, using original description",
			zap.String("result", optimized))
		return description
	}

	a.logger.Info("query optimized",
		zap.Int("original_len", len(description)),
		zap.Int("optimized_len", len(optimized)))

	return optimized
}
