// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

// Get gets value for given key.
func (b Bucket) Get(r Getter, key []byte) ([]byte, error) {
	return r.Get(b.key(key))
}

// Has returns whether the key exists in the bucket.
func (b Bucket) Has(r Getter, key []byte) (bool, error) {
	return r.Has(b.key(key))
}

// Put puts key/value into the bucket.
func (b Bucket) Put(w Putter, key, val []byte) error {
	return w.Put(b.key(key), val)
}

// Delete deletes the key from the bucket.
func (b Bucket) Delete(w Putter, key []byte) error {
	return w.Delete(b.key(key))
}

// Range returns the range covering every key of the bucket.
func (b Bucket) Range() Range {
	start := []byte(b)
	limit := append([]byte(b), 0xff)
	return Range{Start: start, Limit: limit}
}

func (b Bucket) key(key []byte) []byte {
	return append([]byte(b), key...)
}
