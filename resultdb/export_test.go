// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultdb

import "time"

// SetNow sets the time used for new runs. The zero time restores
// the real clock.
func SetNow(t time.Time) {
	if t.IsZero() {
		now = time.Now
		return
	}
	now = func() time.Time { return t }
}

func RunStarted(db *DB, id string) (int64, error) {
	var started int64
	err := db.sql.QueryRow("SELECT Started FROM Runs WHERE RunID = ?", id).Scan(&started)
	return started, err
}
