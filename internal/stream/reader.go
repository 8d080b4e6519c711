package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Reader consumes a progress stream line by line, reassembling records on
// newline boundaries. A line that fails to parse as JSON is logged and
// skipped; a broken line must never halt consumption of the rest of the
// stream.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next valid record, or io.EOF when the stream ends.
func (r *Reader) Next() (Record, error) {
	for {
		line, err := r.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
				// final record without trailing newline
				if rec, ok := parseLine(line); ok {
					return rec, nil
				}
			}
			return Record{}, err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if rec, ok := parseLine(trimmed); ok {
			return rec, nil
		}
	}
}

func parseLine(line string) (Record, bool) {
	var rec Record
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &rec); err != nil || rec.Type == "" {
		zap.S().Named("stream").Warnw("skipping unparseable stream line", "line", line)
		return Record{}, false
	}
	return rec, true
}
