// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultdb archives parsed benchmark results in a SQL
// database so reports can be regenerated without rerunning the
// benchmarks.
package resultdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"golang.org/x/schedperf/schedfmt"
)

// DB is a high-level interface to a result database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun       *sql.Stmt
	insertBenchmark *sql.Stmt
	insertSpill     *sql.Stmt
	insertBlock     *sql.Stmt
	insertPressure  *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. This is used by the sqlite3 package to
// limit the pool to one connection and enable foreign keys.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Label VARCHAR(255),
	Created BIGINT
);
CREATE TABLE IF NOT EXISTS Benchmarks (
	RunID BIGINT UNSIGNED,
	Seq INTEGER,
	Name VARCHAR(255),
	Seconds INTEGER,
	PRIMARY KEY (RunID, Seq),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Spills (
	RunID BIGINT UNSIGNED,
	BenchSeq INTEGER,
	Seq INTEGER,
	FuncName VARCHAR(1024),
	SpillCount INTEGER,
	PRIMARY KEY (RunID, BenchSeq, Seq),
	FOREIGN KEY (RunID, BenchSeq) REFERENCES Benchmarks(RunID, Seq) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Blocks (
	RunID BIGINT UNSIGNED,
	BenchSeq INTEGER,
	Seq INTEGER,
	Name VARCHAR(1024),
	Size INTEGER,
	Outcome VARCHAR(32),
	TimeMs INTEGER,
	ListCost INTEGER,
	Improvement INTEGER,
	RegionSpills INTEGER,
	PRIMARY KEY (RunID, BenchSeq, Seq),
	FOREIGN KEY (RunID, BenchSeq) REFERENCES Benchmarks(RunID, Seq) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Pressure (
	RunID BIGINT UNSIGNED,
	BenchSeq INTEGER,
	Seq INTEGER,
	FuncName VARCHAR(1024),
	BlockSeq INTEGER,
	BlockName VARCHAR(1024),
	SetName VARCHAR(255),
	Excess INTEGER,
	PRIMARY KEY (RunID, BenchSeq, Seq),
	FOREIGN KEY (RunID, BenchSeq) REFERENCES Benchmarks(RunID, Seq) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	for _, s := range []struct {
		stmt **sql.Stmt
		q    string
	}{
		{&db.insertRun, "INSERT INTO Runs(Label, Created) VALUES (?, ?)"},
		{&db.insertBenchmark, "INSERT INTO Benchmarks(RunID, Seq, Name, Seconds) VALUES (?, ?, ?, ?)"},
		{&db.insertSpill, "INSERT INTO Spills(RunID, BenchSeq, Seq, FuncName, SpillCount) VALUES (?, ?, ?, ?, ?)"},
		{&db.insertBlock, "INSERT INTO Blocks(RunID, BenchSeq, Seq, Name, Size, Outcome, TimeMs, ListCost, Improvement, RegionSpills) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"},
		{&db.insertPressure, "INSERT INTO Pressure(RunID, BenchSeq, Seq, FuncName, BlockSeq, BlockName, SetName, Excess) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"},
	} {
		var err error
		if *s.stmt, err = db.sql.Prepare(s.q); err != nil {
			return err
		}
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// A Run is one set of benchmark results, typically one test run of
// an experiment.
type Run struct {
	// ID is the primary key of the run.
	ID int64
	// Label describes the run, for example the name of the
	// scheduler configuration it used.
	Label string

	// benchseq is the sequence number of the next benchmark.
	benchseq int64
	db       *DB
}

// NewRun returns a new, empty run.
func (db *DB) NewRun(ctx context.Context, label string) (*Run, error) {
	res, err := db.insertRun.ExecContext(ctx, label, now().Unix())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Run{ID: id, Label: label, db: db}, nil
}

// InsertResult stores r as the next benchmark of the run. Warnings
// are not stored.
func (run *Run) InsertResult(ctx context.Context, r *schedfmt.Result) (err error) {
	tx, err := run.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	id, bseq := run.ID, run.benchseq
	if _, err = tx.StmtContext(ctx, run.db.insertBenchmark).ExecContext(ctx, id, bseq, r.Name, r.Time); err != nil {
		return err
	}
	stmt := tx.StmtContext(ctx, run.db.insertSpill)
	for i, s := range r.Spills {
		if _, err = stmt.ExecContext(ctx, id, bseq, i, s.Function, s.Count); err != nil {
			return err
		}
	}
	stmt = tx.StmtContext(ctx, run.db.insertBlock)
	for i, b := range r.Blocks {
		if _, err = stmt.ExecContext(ctx, id, bseq, i, b.Name, b.Size, b.Outcome.String(), b.Time, b.ListCost, b.Improvement, b.RegionSpills); err != nil {
			return err
		}
	}
	// A block without pressure sets is stored as one row with a
	// NULL set name so that it survives a round trip.
	stmt = tx.StmtContext(ctx, run.db.insertPressure)
	seq := 0
	for _, f := range r.Pressure {
		for j, b := range f.Blocks {
			if len(b.Sets) == 0 {
				if _, err = stmt.ExecContext(ctx, id, bseq, seq, f.Function, j, b.Block, nil, 0); err != nil {
					return err
				}
				seq++
			}
			for _, s := range b.Sets {
				if _, err = stmt.ExecContext(ctx, id, bseq, seq, f.Function, j, b.Block, s.Set, s.Excess); err != nil {
					return err
				}
				seq++
			}
		}
	}
	run.benchseq++
	return nil
}

// CountRuns returns the number of runs in the database.
func (db *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// LoadRun returns the label and the results of the run with the
// given ID, in the order they were inserted.
func (db *DB) LoadRun(ctx context.Context, id int64) (label string, results []*schedfmt.Result, err error) {
	if err := db.sql.QueryRowContext(ctx, "SELECT Label FROM Runs WHERE RunID = ?", id).Scan(&label); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, fmt.Errorf("run %d not found", id)
		}
		return "", nil, err
	}

	bySeq := make(map[int64]*schedfmt.Result)
	err = db.query(ctx, "SELECT Seq, Name, Seconds FROM Benchmarks WHERE RunID = ? ORDER BY Seq", id, func(rows *sql.Rows) error {
		var seq int64
		r := new(schedfmt.Result)
		if err := rows.Scan(&seq, &r.Name, &r.Time); err != nil {
			return err
		}
		bySeq[seq] = r
		results = append(results, r)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	err = db.query(ctx, "SELECT BenchSeq, FuncName, SpillCount FROM Spills WHERE RunID = ? ORDER BY BenchSeq, Seq", id, func(rows *sql.Rows) error {
		var seq int64
		var s schedfmt.FunctionSpills
		if err := rows.Scan(&seq, &s.Function, &s.Count); err != nil {
			return err
		}
		r := bySeq[seq]
		r.Spills = append(r.Spills, s)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	err = db.query(ctx, "SELECT BenchSeq, Name, Size, Outcome, TimeMs, ListCost, Improvement, RegionSpills FROM Blocks WHERE RunID = ? ORDER BY BenchSeq, Seq", id, func(rows *sql.Rows) error {
		var seq int64
		var name, outcome string
		var size, tm, cost, imp, spills int
		if err := rows.Scan(&seq, &name, &size, &outcome, &tm, &cost, &imp, &spills); err != nil {
			return err
		}
		o, err := schedfmt.ParseOutcome(outcome)
		if err != nil {
			return err
		}
		b, err := schedfmt.NewBlock(name, size, o, tm, cost, imp, spills)
		if err != nil {
			return err
		}
		r := bySeq[seq]
		r.Blocks = append(r.Blocks, b)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	err = db.query(ctx, "SELECT BenchSeq, FuncName, BlockSeq, BlockName, SetName, Excess FROM Pressure WHERE RunID = ? ORDER BY BenchSeq, Seq", id, func(rows *sql.Rows) error {
		var seq int64
		var fn, block string
		var blockSeq, excess int
		var set sql.NullString
		if err := rows.Scan(&seq, &fn, &blockSeq, &block, &set, &excess); err != nil {
			return err
		}
		addPressure(bySeq[seq], fn, blockSeq, block, set, excess)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return label, results, nil
}

// addPressure appends one Pressure row to r. Rows arrive in insertion
// order, so a row either continues the last block of its function or
// starts the next one.
func addPressure(r *schedfmt.Result, fn string, blockSeq int, block string, set sql.NullString, excess int) {
	var f *schedfmt.FunctionPressure
	for i := range r.Pressure {
		if r.Pressure[i].Function == fn {
			f = &r.Pressure[i]
			break
		}
	}
	if f == nil {
		r.Pressure = append(r.Pressure, schedfmt.FunctionPressure{Function: fn})
		f = &r.Pressure[len(r.Pressure)-1]
	}
	if len(f.Blocks) <= blockSeq {
		f.Blocks = append(f.Blocks, schedfmt.BlockPressure{Block: block})
	}
	if set.Valid {
		b := &f.Blocks[len(f.Blocks)-1]
		b.Sets = append(b.Sets, schedfmt.SetExcess{Set: set.String, Excess: excess})
	}
}

// query runs q with the single argument arg and calls scan for each
// result row.
func (db *DB) query(ctx context.Context, q string, arg interface{}, scan func(*sql.Rows) error) error {
	rows, err := db.sql.QueryContext(ctx, q, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertBenchmark, db.insertSpill, db.insertBlock, db.insertPressure} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
