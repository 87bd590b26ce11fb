// Copyright (c) 2025 The Koby Labs developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// discard is both the disabled service and every meter it hands out.
// It is what the ledger runs with unless the daemon enables prometheus.
type discard struct{}

var (
	_ Metrics           = discard{}
	_ CountMeter        = discard{}
	_ CountVecMeter     = discard{}
	_ GaugeMeter        = discard{}
	_ GaugeVecMeter     = discard{}
	_ HistogramMeter    = discard{}
	_ HistogramVecMeter = discard{}
)

func defaultNoopMetrics() Metrics { return discard{} }

func (discard) GetOrCreateCountMeter(string) CountMeter { return discard{} }
func (discard) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return discard{} }
func (discard) GetOrCreateGaugeMeter(string) GaugeMeter { return discard{} }
func (discard) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return discard{} }

func (discard) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return discard{} }

func (discard) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return discard{}
}

// GetOrCreateHandler answers 404, there is nothing to scrape.
func (discard) GetOrCreateHandler() http.Handler { return http.NotFoundHandler() }

func (discard) Add(int64) {}
func (discard) Set(int64) {}
func (discard) Observe(int64) {}
func (discard) AddWithLabel(int64, map[string]string) {}
func (discard) SetWithLabel(int64, map[string]string) {}
func (discard) ObserveWithLabels(int64, map[string]string) {}
