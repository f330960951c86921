// Package stats implements the recursor's periodic query-statistic
// report: every 10 seconds it snapshots and clears the query counter and
// ships the top entries as JSON to an external collector.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/xdnsproj/xdns/cache"
)

// reportInterval is how often a snapshot is taken and shipped.
const reportInterval = 10 * time.Second

// nameCount is the wire shape for one reported row.
type nameCount struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

// Reporter periodically snapshots a QueryStatistic and POSTs the top-N
// busiest names as JSON to endpoint. It is not on the request path.
type Reporter struct {
	stat     *cache.QueryStatistic
	endpoint string
	topN     int
	client   *http.Client
	logger   *log.Logger
}

// NewReporter returns a Reporter that will POST up to topN rows to
// endpoint every 10 seconds once Run is started.
func NewReporter(stat *cache.QueryStatistic, endpoint string, topN int, logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Reporter{
		stat:     stat,
		endpoint: endpoint,
		topN:     topN,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

// Run ticks every reportInterval until ctx is cancelled, reporting on
// each tick. It never reports on an empty snapshot.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(reportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reportOnce(ctx)
		}
	}
}

func (r *Reporter) reportOnce(ctx context.Context) {
	info := r.stat.SortAndClear()
	if len(info) == 0 {
		return
	}
	if r.topN > 0 && len(info) > r.topN {
		info = info[:r.topN]
	}

	rows := make([]nameCount, len(info))
	for i, nc := range info {
		rows[i] = nameCount{Name: nc.Name.String(), Count: nc.Count}
	}

	body, err := json.Marshal(rows)
	if err != nil {
		r.logger.Printf("stats: marshaling report: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		r.logger.Printf("stats: building report request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Printf("stats: posting report to %s: %v", r.endpoint, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		r.logger.Printf("stats: report to %s rejected: %s", r.endpoint, resp.Status)
	}
}
