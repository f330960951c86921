// Package recursor implements the recursive/forwarding query handler:
// cache lookup, longest-match forwarder selection, a bounded UDP
// round trip upstream, and cache population, tying query statistics to
// every request.
package recursor

import (
	"log"
	"net"
	"sync"

	"github.com/jmhodges/clock"
	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/cache"
	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/forward"
	"github.com/xdnsproj/xdns/server"
)

// DefaultMessageCacheSize bounds each half of the recursor's cache.
const DefaultMessageCacheSize = 40960

// Recursor is the recursive handler: a forwarder table, a message
// cache, and a query-hit statistic, each guarded by its own lock. The
// locks are uncontended on the request path since the serving loop
// processes one query at a time.
type Recursor struct {
	mu         sync.RWMutex
	forwarders *forward.Table

	cache *cache.MessageCache
	stat  *cache.QueryStatistic

	logger *log.Logger
}

// New returns a Recursor with an empty forwarder table and a cache
// bounded to DefaultMessageCacheSize entries per half.
func New(logger *log.Logger) *Recursor {
	if logger == nil {
		logger = log.Default()
	}
	return &Recursor{
		forwarders: forward.NewTable(),
		cache:      cache.NewMessageCache(DefaultMessageCacheSize, clock.Default()),
		stat:       cache.NewQueryStatistic(DefaultMessageCacheSize),
		logger:     logger,
	}
}

// AddForward registers addr as the upstream resolver for zone.
func (r *Recursor) AddForward(zone dnsname.Name, addr net.Addr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwarders.Add(zone, addr)
}

// Stat returns the recursor's query-hit counter, so a stats.Reporter can
// periodically snapshot it.
func (r *Recursor) Stat() *cache.QueryStatistic {
	return r.stat
}

// Resolve implements server.Handler:
//  1. increments the query statistic for the question name;
//  2. returns a cache hit verbatim if one exists;
//  3. otherwise looks up the longest-matching forwarder and, if none,
//     answers ServFail;
//  4. otherwise forwards, caches a clone of the reply, rewrites the
//     response id to the client's, and returns it.
func (r *Recursor) Resolve(req *server.Request) *server.Response {
	r.stat.AddQuery(req.Question.Name)

	if resp, ok := r.cache.GenResponse(req); ok {
		return resp
	}

	r.mu.RLock()
	addr, ok := r.forwarders.Lookup(req.Question.Name)
	r.mu.RUnlock()
	if !ok {
		resp := server.NewResponse(req)
		resp.Rcode = dns.RcodeServerFailure
		return resp
	}

	resp, err := forward.Roundtrip(req, addr)
	if err != nil {
		r.logger.Printf("recursor: forwarding %s to %s: %v", req.Question.Name, addr, err)
		resp := server.NewResponse(req)
		resp.Rcode = dns.RcodeServerFailure
		return resp
	}

	r.cache.AddResponse(req.Question.Name, req.Question.Type, resp)
	resp.ID = req.ID
	resp.RecursionAvailable = true
	return resp
}
