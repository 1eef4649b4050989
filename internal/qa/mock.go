package qa

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Mock answers without calling a model endpoint. Used for local development
// (QA_MOCK=true) and in tests.
type Mock struct{}

func (Mock) Answer(_ context.Context, table map[string][]string, question string) (Answer, error) {
	rows := 0
	cols := make([]string, 0, len(table))
	for col, vals := range table {
		cols = append(cols, col)
		if len(vals) > rows {
			rows = len(vals)
		}
	}
	sort.Strings(cols)

	return Answer{
		Text: fmt.Sprintf("mock: %d rows, columns [%s] (question: %q)",
			rows, strings.Join(cols, ", "), question),
	}, nil
}
