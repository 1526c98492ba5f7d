// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultdb mirrors recorded benchmark results into a SQL
// database, together with the raw trial values the report omits.
package resultdb

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/gpubench/autobench/report"
)

// DB is a high-level interface to a results database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun    *sql.Stmt
	insertResult *sql.Stmt
	insertValue  *sql.Stmt
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
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID VARCHAR(36) PRIMARY KEY,
	Started BIGINT,
	Host VARCHAR(255),
	Trials INT,
	Warmup {{if .sqlite3}}INTEGER{{else}}BOOL{{end}},
	Args {{if .sqlite3}}TEXT{{else}}VARCHAR(8192){{end}}
);
CREATE TABLE IF NOT EXISTS Results (
	RunID VARCHAR(36),
	Name VARCHAR(255),
	Min DOUBLE,
	Mean DOUBLE,
	StdDev DOUBLE,
	CoefVar DOUBLE,
	PRIMARY KEY (RunID, Name),
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS TrialValues (
	RunID VARCHAR(36),
	Name VARCHAR(255),
	Trial INT,
	Value DOUBLE,
	PRIMARY KEY (RunID, Name, Trial),
	FOREIGN KEY (RunID, Name) REFERENCES Results(RunID, Name) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS ResultsName ON Results(Name);
{{else}}
CREATE INDEX ResultsName ON Results(Name);
{{end}}
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
			if driverName != "sqlite3" && strings.Contains(q, "CREATE INDEX") && isDuplicateKey(err) {
				continue
			}
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// isDuplicateKey reports whether err is MySQL's error for an index
// that already exists.
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "Error 1061")
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(RunID, Started, Host, Trials, Warmup, Args) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertResult, err = db.sql.Prepare("INSERT INTO Results(RunID, Name, Min, Mean, StdDev, CoefVar) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertValue, err = db.sql.Prepare("INSERT INTO TrialValues(RunID, Name, Trial, Value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// RunInfo describes one invocation of the harness.
type RunInfo struct {
	Host   string
	Trials int
	Warmup bool
	Args   []string // command line
}

// A Run is the set of results recorded by one invocation.
type Run struct {
	// ID identifies the run. It is a random UUID.
	ID string

	db *DB
}

// NewRun records a new run and returns it.
func (db *DB) NewRun(ctx context.Context, info RunInfo) (*Run, error) {
	id := uuid.NewString()
	_, err := db.insertRun.ExecContext(ctx, id, now().Unix(), info.Host, info.Trials, info.Warmup, strings.Join(info.Args, " "))
	if err != nil {
		return nil, err
	}
	return &Run{ID: id, db: db}, nil
}

// Write inserts the summary of res and its trial values in a single
// transaction.
func (r *Run) Write(res *report.Result) (err error) {
	tx, err := r.db.sql.Begin()
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
	if _, err = tx.Stmt(r.db.insertResult).Exec(r.ID, res.Name, res.Min, res.Mean, res.StdDev, res.CoefVar); err != nil {
		return err
	}
	ins := tx.Stmt(r.db.insertValue)
	for i, v := range res.Values {
		if _, err = ins.Exec(r.ID, res.Name, i, v); err != nil {
			return err
		}
	}
	return nil
}

// Results returns the results of run id in name order, with their
// trial values.
func (db *DB) Results(ctx context.Context, id string) ([]*report.Result, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT Name, Min, Mean, StdDev, CoefVar FROM Results WHERE RunID = ? ORDER BY Name", id)
	if err != nil {
		return nil, err
	}
	var out []*report.Result
	byName := make(map[string]*report.Result)
	for rows.Next() {
		res := new(report.Result)
		if err := rows.Scan(&res.Name, &res.Min, &res.Mean, &res.StdDev, &res.CoefVar); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, res)
		byName[res.Name] = res
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	rows, err = db.sql.QueryContext(ctx, "SELECT Name, Value FROM TrialValues WHERE RunID = ? ORDER BY Name, Trial", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var v float64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, err
		}
		if res := byName[name]; res != nil {
			res.Values = append(res.Values, v)
		}
	}
	return out, rows.Err()
}

// CountRuns returns the number of recorded runs.
func (db *DB) CountRuns() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// CountResults returns the number of results recorded for the
// benchmark called name across all runs.
func (db *DB) CountResults(name string) (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Results WHERE Name = ?", name).Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRun, db.insertResult, db.insertValue} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
