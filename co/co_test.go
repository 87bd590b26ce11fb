// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalBroadcast(t *testing.T) {
	var (
		sig   Signal
		wg    sync.WaitGroup
		woken atomic.Int32
	)
	ready := make(chan struct{}, 3)
	for range 3 {
		wg.Go(func() {
			ch := sig.C()
			ready <- struct{}{}
			<-ch
			woken.Add(1)
		})
	}
	for range 3 {
		<-ready
	}
	sig.Broadcast()
	wg.Wait()
	assert.Equal(t, int32(3), woken.Load())
}

func TestSignalRearms(t *testing.T) {
	var sig Signal

	first := sig.C()
	sig.Broadcast()
	second := sig.C()

	select {
	case <-first:
	default:
		t.Fatal("first channel should be closed")
	}
	select {
	case <-second:
		t.Fatal("second channel should wait for the next broadcast")
	default:
	}

	sig.Broadcast()
	<-second
}
