package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// JSONLinesWriter writes trace records as newline-delimited JSON. Each record
// is marshaled into a single line and appended under an exclusive lock, so
// records produced by concurrent goroutines never interleave partial lines.
type JSONLinesWriter struct {
	w    io.Writer
	file *os.File
	path string
	lock sync.Mutex
}

// NewJSONLinesWriter creates a writer that stores records in a file. If path
// is empty a unique name is generated.
func NewJSONLinesWriter(path string) *JSONLinesWriter {
	return &JSONLinesWriter{path: path}
}

// NewJSONLinesWriterWithWriter creates a writer with the output injected as a
// dependency.
func NewJSONLinesWriterWithWriter(w io.Writer) *JSONLinesWriter {
	return &JSONLinesWriter{w: w}
}

// Init creates the trace file. It refuses to overwrite an existing file.
func (t *JSONLinesWriter) Init() {
	if t.w != nil {
		return
	}

	if t.path == "" {
		t.path = "trace_" + xid.New().String()
	}

	filename := t.path + ".ndjson"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file
	t.w = file

	fmt.Fprintf(os.Stderr, "Recording trace in %s\n", filename)

	atexit.Register(func() {
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// RecordEvent appends one record as a JSON line.
func (t *JSONLinesWriter) RecordEvent(r Record) {
	b, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	b = append(b, '\n')

	t.lock.Lock()
	defer t.lock.Unlock()

	_, err = t.w.Write(b)
	if err != nil {
		panic(err)
	}
}
