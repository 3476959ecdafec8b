package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/agusx1211/copycode/internal/bundle"
)

const maxReportedFiles = 20

// tokenizer counts tokens for a model.
type tokenizer interface {
	Count(text string) int
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func newTokenizer(model string) (tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to get tokenizer for model %q: %w", model, err)
	}
	return tiktokenCounter{enc: enc}, nil
}

func (c tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// buildTokenReport summarizes the token cost of result. The detailed form adds
// the most expensive entries and the cost of the separators between them.
func buildTokenReport(result bundle.Result, tok tokenizer, model string, detailed bool) string {
	total := tok.Count(result.Content)

	var b strings.Builder
	fmt.Fprintf(&b, "tokens: %d\n", total)
	if !detailed {
		return b.String()
	}

	type item struct {
		path   string
		tokens int
	}
	items := make([]item, 0, len(result.Sections))
	fileTokens := 0
	for _, s := range result.Sections {
		n := tok.Count(result.Content[s.Start:s.End])
		fileTokens += n
		items = append(items, item{path: s.Path, tokens: n})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].tokens == items[j].tokens {
			return items[i].path < items[j].path
		}
		return items[i].tokens > items[j].tokens
	})

	fmt.Fprintf(&b, "model: %s\n", model)
	fmt.Fprintf(&b, "file tokens: %d\n", fileTokens)
	// Entries are tokenized separately, so this can drift slightly from the
	// separator cost.
	fmt.Fprintf(&b, "separator tokens: %d\n", total-fileTokens)

	fmt.Fprintf(&b, "\ntop files:\n")
	limit := min(len(items), maxReportedFiles)
	for _, it := range items[:limit] {
		fmt.Fprintf(&b, "%d\t%s\t(%s)\n", it.tokens, it.path, formatPercent(it.tokens, fileTokens))
	}
	if len(items) > limit {
		fmt.Fprintf(&b, "...\n")
	}
	return b.String()
}

func formatPercent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(whole))
}
