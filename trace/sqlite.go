package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/tracelab/tracebrowser/datarecording"
)

// recordTableEntry flattens a Record for relational storage. The locals
// snapshot is stored as a JSON string.
type recordTableEntry struct {
	Timestamp float64
	Event     string
	Arg       string
	Thread    string
	Filename  string
	Lineno    int
	CoName    string
	Depth     int
	Locals    string
}

func (e *recordTableEntry) toRecord() (Record, error) {
	rec := Record{
		Timestamp: e.Timestamp,
		Event:     e.Event,
		Arg:       e.Arg,
		Thread:    e.Thread,
		Filename:  e.Filename,
		Lineno:    e.Lineno,
		FuncName:  e.CoName,
		Depth:     e.Depth,
	}

	if e.Locals != "" {
		err := json.Unmarshal([]byte(e.Locals), &rec.Locals)
		if err != nil {
			return Record{}, err
		}
	}

	return rec, nil
}

// SQLiteTraceWriter stores trace records in a SQLite database through the
// datarecording backend.
type SQLiteTraceWriter struct {
	lock    sync.Mutex
	backend datarecording.DataRecorder
}

// NewSQLiteTraceWriter creates a SQLiteTraceWriter that writes to a database
// file at path. If path is empty a unique name is generated.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	return &SQLiteTraceWriter{
		backend: datarecording.New(path),
	}
}

// NewSQLiteTraceWriterWithRecorder creates a SQLiteTraceWriter with the
// backend injected as a dependency.
func NewSQLiteTraceWriterWithRecorder(
	backend datarecording.DataRecorder,
) *SQLiteTraceWriter {
	return &SQLiteTraceWriter{backend: backend}
}

// Init creates the trace table.
func (t *SQLiteTraceWriter) Init() {
	t.backend.CreateTable("trace", recordTableEntry{})
}

// RecordEvent buffers one record for insertion.
func (t *SQLiteTraceWriter) RecordEvent(r Record) {
	entry := recordTableEntry{
		Timestamp: r.Timestamp,
		Event:     r.Event,
		Arg:       r.Arg,
		Thread:    r.Thread,
		Filename:  r.Filename,
		Lineno:    r.Lineno,
		CoName:    r.FuncName,
		Depth:     r.Depth,
		Locals:    localsAsJSON(r.Locals),
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.backend.InsertData("trace", entry)
}

// Flush writes all buffered records to the database.
func (t *SQLiteTraceWriter) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.backend.Flush()
}

// A RecordQuery selects records from a stored trace. Empty fields are
// ignored.
type RecordQuery struct {
	// Use Thread to select the records of a single thread.
	Thread string

	// Use Event to select the records of a single event tag.
	Event string

	// EnableTimeRange enables the StartTime/EndTime filter.
	EnableTimeRange bool

	// StartTime and EndTime select records with a timestamp in
	// [StartTime, EndTime].
	StartTime, EndTime float64

	// Limit and Offset paginate the result. A zero Limit returns
	// everything.
	Limit, Offset int
}

// SQLiteTraceReader reads trace records from a SQLite database written by
// SQLiteTraceWriter. Records are read back through the datarecording
// backend.
type SQLiteTraceReader struct {
	db      *sql.DB
	backend datarecording.DataReader

	filename string
}

// NewSQLiteTraceReader creates a new SQLiteTraceReader.
func NewSQLiteTraceReader(filename string) *SQLiteTraceReader {
	return &SQLiteTraceReader{filename: filename}
}

// Init establishes a connection to the database and maps the trace table.
func (r *SQLiteTraceReader) Init() {
	db, err := sql.Open("sqlite3", r.filename)
	if err != nil {
		panic(err)
	}

	r.db = db
	r.backend = datarecording.NewReaderWithDB(db)
	r.backend.MapTable("trace", recordTableEntry{})
}

// Close closes the database connection.
func (r *SQLiteTraceReader) Close() error {
	return r.backend.Close()
}

// ListThreads returns the thread identifiers in the trace, in the order the
// threads first appear.
func (r *SQLiteTraceReader) ListThreads() ([]string, error) {
	rows, err := r.db.Query(
		"SELECT Thread FROM trace GROUP BY Thread ORDER BY MIN(rowid)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []string
	for rows.Next() {
		var thread string
		if err := rows.Scan(&thread); err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}

	return threads, rows.Err()
}

// ListRecords returns the records matching the query, in file order.
func (r *SQLiteTraceReader) ListRecords(
	ctx context.Context,
	q RecordQuery,
) ([]Record, error) {
	where := []string{}
	args := []any{}

	if q.Thread != "" {
		where = append(where, "Thread = ?")
		args = append(args, q.Thread)
	}

	if q.Event != "" {
		where = append(where, "Event = ?")
		args = append(args, q.Event)
	}

	if q.EnableTimeRange {
		where = append(where, "Timestamp >= ?", "Timestamp <= ?")
		args = append(args, q.StartTime, q.EndTime)
	}

	entries, _, err := r.backend.Query(ctx, "trace",
		datarecording.QueryParams{
			Where:   strings.Join(where, " AND "),
			Args:    args,
			OrderBy: "rowid",
			Limit:   q.Limit,
			Offset:  q.Offset,
		})
	if err != nil {
		return nil, err
	}

	records := []Record{}
	for _, entry := range entries {
		rec, err := entry.(*recordTableEntry).toRecord()
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}
