// Package qa is the bridge to an external table question-answering model.
// The service only depends on the Answerer interface, so the hosted model
// can be swapped without touching the auth or dataset code.
package qa

import "context"

// Answer is the model's reply to one question.
type Answer struct {
	Text        string   `json:"answer"`
	Cells       []string `json:"cells,omitempty"`
	Coordinates [][]int  `json:"coordinates,omitempty"`
}

// Answerer answers a natural-language question about a table. The table is
// column-oriented: column name -> cell values, all strings. Calls are
// synchronous and blocking; ctx cancellation covers client disconnects.
type Answerer interface {
	Answer(ctx context.Context, table map[string][]string, question string) (Answer, error)
}
