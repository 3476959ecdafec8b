package bundle

import "strings"

// DefaultBudget caps the aggregated output at 15 MiB.
const DefaultBudget = 15 * 1024 * 1024

// Separator joins consecutive entries.
const Separator = "\n\n---\n\n"

// Section locates one entry inside Result.Content.
type Section struct {
	Path  string
	Start int
	End   int
}

// Result is the outcome of an aggregation.
type Result struct {
	Content string
	// Processed is the number of entries incorporated into Content.
	Processed int
	// StoppedEarly is set when the budget left files unprocessed.
	StoppedEarly bool
	Sections     []Section
	// Skipped combines nested directory failures encountered while walking.
	Skipped error
}

// EntryFormatter renders one file into an entry.
type EntryFormatter interface {
	Format(path, displayRoot string) (string, error)
}

// Aggregate formats files in order and joins them with Separator until adding
// the next entry would push the output past budget. Lengths are byte lengths
// of the joined output, separators included. Any formatting failure aborts the
// whole aggregation.
func Aggregate(files []string, displayRoot string, budget int, formatter EntryFormatter) (Result, error) {
	var (
		b        strings.Builder
		result   Result
		running  int
		sections = make([]Section, 0, len(files))
	)
	for i, path := range files {
		entry, err := formatter.Format(path, displayRoot)
		if err != nil {
			return Result{}, err
		}
		candidate := len(entry)
		if i > 0 {
			candidate += len(Separator)
		}
		if running+candidate > budget {
			result.StoppedEarly = true
			break
		}
		if i > 0 {
			b.WriteString(Separator)
		}
		start := b.Len()
		b.WriteString(entry)
		sections = append(sections, Section{Path: DisplayPath(path, displayRoot), Start: start, End: b.Len()})
		running += candidate
		result.Processed++
	}
	result.Content = b.String()
	result.Sections = sections
	return result, nil
}
