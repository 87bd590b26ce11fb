// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq is the position of an event in the ledger's history, it only grows.
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	caller BLOB(33),
	method TEXT,
	address BLOB(32),
	name TEXT,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(time);
CREATE INDEX IF NOT EXISTS event_i1 ON event(address);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i4 ON event(topic2);
`
