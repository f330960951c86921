package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xdnsproj/xdns/cache"
	"github.com/xdnsproj/xdns/dnsname"
)

func TestReporterPostsTopN(t *testing.T) {
	received := make(chan []nameCount, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows []nameCount
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			t.Errorf("decoding report body: %v", err)
		}
		received <- rows
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	stat := cache.NewQueryStatistic(10)
	stat.AddQuery(dnsname.New("a.com."))
	stat.AddQuery(dnsname.New("a.com."))
	stat.AddQuery(dnsname.New("b.com."))

	r := NewReporter(stat, srv.URL, 1, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.reportOnce(ctx)

	select {
	case rows := <-received:
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1 (topN)", len(rows))
		}
		if rows[0].Name != "a.com." || rows[0].Count != 2 {
			t.Fatalf("unexpected top row: %#v", rows[0])
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for report")
	}

	if stat.Len() != 0 {
		t.Fatal("reportOnce should have cleared the statistic")
	}
}

func TestReporterSkipsEmptySnapshot(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	stat := cache.NewQueryStatistic(10)
	r := NewReporter(stat, srv.URL, 5, nil)
	r.reportOnce(context.Background())

	if called {
		t.Fatal("reportOnce should not contact the endpoint with nothing to report")
	}
}
