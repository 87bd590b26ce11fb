// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/koby-labs/staking/koby"
)

const memPath = ":memory:"

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	dsn := path
	if path != memPath {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if path == memPath {
		// every connection would see its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memPath)
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the linked sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends events in one transaction and assigns their sequence numbers.
func (db *LogDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare("INSERT INTO event(time, caller, method, address, name, topic0, topic1, topic2, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	err = db.execInTx(func(tx *sql.Tx) error {
		insert := tx.Stmt(stmt)
		for _, ev := range events {
			res, err := insert.Exec(
				ev.Time,
				callerValue(ev.Caller),
				ev.Method,
				ev.Address.Bytes(),
				ev.Name,
				topicValue(ev.Topics[0]),
				topicValue(ev.Topics[1]),
				topicValue(ev.Topics[2]),
				ev.Data,
			)
			if err != nil {
				return err
			}
			seq, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ev.Seq = uint64(seq)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "insert events")
	}
	metricInsertedEvents().Add(int64(len(events)))
	return nil
}

// MaxSeq returns the sequence number of the latest event, 0 if none.
func (db *LogDB) MaxSeq() (uint64, error) {
	stmt, err := db.stmtCache.Prepare("SELECT COALESCE(MAX(seq), 0) FROM event")
	if err != nil {
		return 0, err
	}
	var seq uint64
	if err := stmt.QueryRow().Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// EventsAfter returns up to limit events with a sequence number above seq, oldest first.
func (db *LogDB) EventsAfter(ctx context.Context, seq, limit uint64) ([]*Event, error) {
	return db.queryEvents(ctx, "SELECT seq, time, caller, method, address, name, topic0, topic1, topic2, data FROM event WHERE seq > ? ORDER BY seq ASC LIMIT ?", seq, limit)
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, time, caller, method, address, name, topic0, topic1, topic2, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		cond strings.Builder
	)
	cond.WriteString(query + " WHERE 1")
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		cond.WriteString(" AND time >= ?")
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			cond.WriteString(" AND time <= ?")
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			cond.WriteString(" AND (( 1")
		} else {
			cond.WriteString(" OR ( 1")
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			cond.WriteString(" AND address = ?")
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				fmt.Fprintf(&cond, " AND topic%d = ?", j)
			}
		}
		cond.WriteString(" )")
	}
	if len(filter.CriteriaSet) > 0 {
		cond.WriteString(")")
	}

	if filter.Order == DESC {
		cond.WriteString(" ORDER BY seq DESC")
	} else {
		cond.WriteString(" ORDER BY seq ASC")
	}

	if filter.Options != nil {
		cond.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, cond.String(), args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev      Event
			caller  []byte
			address []byte
			topics  [3][]byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&ev.Time,
			&caller,
			&ev.Method,
			&address,
			&ev.Name,
			&topics[0],
			&topics[1],
			&topics[2],
			&ev.Data,
		); err != nil {
			return nil, err
		}
		ev.Caller = callerFromBytes(caller)
		ev.Address = koby.BytesToBytes32(address)
		for i, topic := range topics {
			if len(topic) > 0 {
				h := koby.BytesToBytes32(topic)
				ev.Topics[i] = &h
			}
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func topicValue(topic *koby.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

func callerValue(id koby.Identity) []byte {
	if id.IsZero() {
		return nil
	}
	return id.Bytes()
}

func callerFromBytes(b []byte) koby.Identity {
	if len(b) != 33 {
		return koby.Identity{}
	}
	return koby.Identity{Kind: koby.IdentityKind(b[0]), Value: koby.BytesToBytes32(b[1:])}
}
