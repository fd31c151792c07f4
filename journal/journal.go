// ════════════════════════════════════════════════════════════════════════════════════════════════
// Cooperative Fiber Pool - Completion Journal
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Multi-threaded Cooperative Fiber Pool
// Component: Task Latency Persistence & Stats Snapshots
//
// Description:
//   Optional bookkeeping sink for the pool: every finished task contributes
//   one latency record. Records are buffered through a lock-free ring and
//   flushed to sqlite in batched transactions by a background flusher, so
//   the fiber-side Record call costs one ring push and never touches the
//   database. Aggregate statistics export as JSON snapshots.
//
// Failure model:
//   Journal I/O failures are logged and drop records; they never propagate
//   into the scheduler path. A full buffer likewise sheds the record: the
//   journal is diagnostics, not ground truth.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package journal

import (
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"

	"github.com/Souma736/simple-coroutine/debug"
	"github.com/Souma736/simple-coroutine/jobring"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

const (
	// bufferDepth sizes the record ring between fibers and the flusher.
	bufferDepth = 8192

	// flushBatch caps the rows written per transaction.
	flushBatch = 512

	// flushInterval bounds how stale a buffered record may get.
	flushInterval = 250 * time.Millisecond

	// ringBackoff/ringRetries tune the record ring; contention here is
	// light, so one short retry is plenty.
	ringBackoff = 50 * time.Microsecond
	ringRetries = 1
)

// Task outcomes as persisted in the outcome column.
const (
	OutcomeOK    = "ok"
	OutcomePanic = "panic"
)

const schema = `
CREATE TABLE IF NOT EXISTS task_completions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	worker       INTEGER NOT NULL,
	submitted_ns INTEGER NOT NULL,
	finished_ns  INTEGER NOT NULL,
	latency_ns   INTEGER NOT NULL,
	outcome      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_completions_outcome ON task_completions(outcome);
`

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CORE DATA STRUCTURES
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Record is one task completion as reported by a fiber.
type Record struct {
	Worker      int
	SubmittedAt int64 // UnixNano at Submit
	FinishedAt  int64 // UnixNano at completion
	Outcome     string
}

// Stats is the aggregate view exported by Snapshot.
type Stats struct {
	Recorded   int64 `json:"recorded"`
	Dropped    int64 `json:"dropped"`
	Persisted  int64 `json:"persisted"`
	Panicked   int64 `json:"panicked"`
	TotalNs    int64 `json:"total_latency_ns"`
	MaxNs      int64 `json:"max_latency_ns"`
	SnapshotAt int64 `json:"snapshot_unix_ns"`
}

// Journal owns the sqlite handle, the record ring and the flusher
// goroutine. Record is safe from any fiber; Close is owner-only.
type Journal struct {
	db   *sql.DB
	ring *jobring.Queue[Record]

	recorded  atomic.Int64
	dropped   atomic.Int64
	persisted atomic.Int64
	panicked  atomic.Int64
	totalNs   atomic.Int64
	maxNs     atomic.Int64

	closing atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Open creates or opens the journal database at path (":memory:" works for
// tests), ensures the schema, and starts the flusher.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	j := &Journal{
		db:   db,
		ring: jobring.New[Record](bufferDepth, ringBackoff, ringRetries),
		done: make(chan struct{}),
	}
	go j.flushLoop()
	return j, nil
}

// Close drains the buffer with a final flush, stops the flusher and closes
// the database. The attached pool must be stopped first: no Record may run
// concurrently with Close.
func (j *Journal) Close() error {
	var err error
	j.once.Do(func() {
		j.closing.Store(true)
		<-j.done
		err = j.db.Close()
	})
	return err
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RECORD PATH (FIBER SIDE)
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Record buffers one completion. Never blocks beyond the ring's bounded
// retry; a full buffer drops the record and bumps the drop counter.
func (j *Journal) Record(r Record) {
	if j.closing.Load() {
		j.dropped.Add(1)
		return
	}
	lat := r.FinishedAt - r.SubmittedAt
	rec := r
	if !j.ring.Push(&rec) {
		j.dropped.Add(1)
		return
	}
	j.recorded.Add(1)
	j.totalNs.Add(lat)
	for {
		old := j.maxNs.Load()
		if lat <= old || j.maxNs.CompareAndSwap(old, lat) {
			break
		}
	}
	if r.Outcome == OutcomePanic {
		j.panicked.Add(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// FLUSHER (BACKGROUND)
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Flush synchronously writes everything currently buffered. Safe alongside
// the background flusher; used by owners that need durable rows before a
// snapshot or teardown.
func (j *Journal) Flush() {
	j.flushOnce()
}

// flushLoop batches buffered records into transactions until Close, then
// performs one terminal drain.
func (j *Journal) flushLoop() {
	defer close(j.done)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for !j.closing.Load() {
		<-ticker.C
		j.flushOnce()
	}
	j.flushOnce()
}

// flushOnce writes up to flushBatch buffered rows in one transaction,
// repeating until the ring is empty.
func (j *Journal) flushOnce() {
	for {
		batch := make([]Record, 0, flushBatch)
		for len(batch) < flushBatch {
			p := j.ring.Pop()
			if p == nil {
				break
			}
			batch = append(batch, *p)
		}
		if len(batch) == 0 {
			return
		}
		if err := j.persist(batch); err != nil {
			debug.DropError("journal: flush failed", err)
			j.dropped.Add(int64(len(batch)))
			continue
		}
		j.persisted.Add(int64(len(batch)))
	}
}

func (j *Journal) persist(batch []Record) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO task_completions(worker, submitted_ns, finished_ns, latency_ns, outcome) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	for i := range batch {
		r := &batch[i]
		if _, err := stmt.Exec(r.Worker, r.SubmittedAt, r.FinishedAt, r.FinishedAt-r.SubmittedAt, r.Outcome); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}
	stmt.Close()
	return tx.Commit()
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SNAPSHOTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Snapshot returns the aggregate counters as JSON.
func (j *Journal) Snapshot() ([]byte, error) {
	return sonnet.Marshal(j.stats())
}

// DecodeSnapshot parses a snapshot produced by Snapshot.
func DecodeSnapshot(data []byte) (Stats, error) {
	var s Stats
	err := sonnet.Unmarshal(data, &s)
	return s, err
}

// PersistedCount reports rows actually written to sqlite, straight from
// the database so tests can assert on durable state.
func (j *Journal) PersistedCount() (int64, error) {
	var n int64
	err := j.db.QueryRow("SELECT COUNT(*) FROM task_completions").Scan(&n)
	return n, err
}

func (j *Journal) stats() Stats {
	return Stats{
		Recorded:   j.recorded.Load(),
		Dropped:    j.dropped.Load(),
		Persisted:  j.persisted.Load(),
		Panicked:   j.panicked.Load(),
		TotalNs:    j.totalNs.Load(),
		MaxNs:      j.maxNs.Load(),
		SnapshotAt: time.Now().UnixNano(),
	}
}
