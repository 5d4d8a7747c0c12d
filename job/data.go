package job

import (
	"context"
	"encoding/json"
	"io"

	"github.com/fwojciec/ljdl"
)

// DataJob writes extractor messages as JSON lines instead of downloading.
// Directory messages are written as ["directory", post] and URL messages
// as ["url", url, post].
type DataJob struct {
	Extractor ljdl.Extractor
	Out       io.Writer
}

// Run writes every message and returns how many were written.
// Messages written before an extractor error stay written.
func (j *DataJob) Run(ctx context.Context) (int, error) {
	enc := json.NewEncoder(j.Out)
	enc.SetEscapeHTML(false)

	n := 0
	for msg, err := range j.Extractor.Items(ctx) {
		if err != nil {
			return n, err
		}

		var record []any
		switch msg.Kind {
		case ljdl.MessageDirectory:
			record = []any{msg.Kind.String(), msg.Post}
		case ljdl.MessageURL:
			record = []any{msg.Kind.String(), msg.URL, msg.Post}
		default:
			continue
		}

		if err := enc.Encode(record); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
