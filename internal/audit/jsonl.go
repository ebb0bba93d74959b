package audit

import (
	"encoding/json"
	"os"
	"sync"
)

// JSONLSink appends entries to a JSONL file, one entry per line. The file
// format is a host convenience; the trail itself defines no on-disk
// format.
type JSONLSink struct {
	mu   sync.Mutex
	file *os.File
}

// NewJSONLSink opens (or creates) the audit file for appending.
func NewJSONLSink(path string) (*JSONLSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &JSONLSink{file: file}, nil
}

// Write serializes one entry as a JSON line.
func (s *JSONLSink) Write(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = s.file.Write(data)
	return err
}

// Close closes the underlying file.
func (s *JSONLSink) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
