package fhir

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxNDJSONLine bounds one line of an NDJSON stream. Bulk Data exports put a
// whole resource on each line.
const maxNDJSONLine = 16 << 20

// NDJSONWriter writes values in NDJSON (Newline Delimited JSON) format, one
// JSON document per line as in FHIR Bulk Data exports.
type NDJSONWriter struct {
	w *bufio.Writer
}

// NewNDJSONWriter creates a new NDJSONWriter that writes to w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{
		w: bufio.NewWriter(w),
	}
}

// Encode writes v as a single JSON line.
func (n *NDJSONWriter) Encode(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := n.w.Write(data); err != nil {
		return err
	}
	return n.w.WriteByte('\n')
}

// Flush flushes any buffered data to the underlying writer.
func (n *NDJSONWriter) Flush() error {
	return n.w.Flush()
}

// ScanNDJSON calls fn with each non-blank line of r. Line numbers start at 1.
// The slice passed to fn is only valid until fn returns. Scanning stops at the
// first error from fn.
func ScanNDJSON(r io.Reader, fn func(line int, data []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxNDJSONLine)
	line := 0
	for sc.Scan() {
		line++
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("ndjson line %d: %w", line+1, err)
	}
	return nil
}
