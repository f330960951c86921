// Package cache implements the recursor's replay cache, a split
// positive/negative bounded LRU of decoded responses, and the bounded
// LRU query counter used for periodic reporting.
package cache

import (
	"time"

	"github.com/jmhodges/clock"

	"github.com/xdnsproj/xdns/rrset"
	"github.com/xdnsproj/xdns/server"
)

// MessageEntry is a cached response: the rcode plus whichever section
// was retained from the original response (the Answer section for a
// positive response, the Authority section, typically a single SOA, for
// a negative one), and the absolute time it expires.
type MessageEntry struct {
	rcode       int
	answerCount int
	authCount   int
	rrsets      []rrset.RRset

	initTime   time.Time
	expireTime time.Time
}

// NewMessageEntry builds an entry from resp as of clk.Now(). Only one of
// Answer or Authority is ever retained: a response with any Answer
// RRsets is positive and keeps only those; otherwise the Authority
// RRsets are kept. The entry expires when the shortest retained TTL runs
// out.
func NewMessageEntry(resp *server.Response, clk clock.Clock) MessageEntry {
	now := clk.Now()
	e := MessageEntry{rcode: resp.Rcode, initTime: now}

	var minTTL uint32
	haveTTL := false
	track := func(rs rrset.RRset) {
		if !haveTTL || rs.TTL < minTTL {
			minTTL = rs.TTL
			haveTTL = true
		}
		e.rrsets = append(e.rrsets, rs)
	}

	if len(resp.Answer) > 0 {
		e.answerCount = len(resp.Answer)
		for _, rs := range resp.Answer {
			track(rs)
		}
	} else if len(resp.Authority) > 0 {
		e.authCount = len(resp.Authority)
		for _, rs := range resp.Authority {
			track(rs)
		}
	}

	e.expireTime = now.Add(time.Duration(minTTL) * time.Second)
	return e
}

func (e MessageEntry) isExpired(clk clock.Clock) bool {
	return !clk.Now().Before(e.expireTime)
}

// genResponse replays the entry as a fresh *server.Response for req,
// decaying every retained RRset's TTL by the elapsed time since
// construction and clamping the floor at 1. It reports false if the
// entry has already expired.
func (e MessageEntry) genResponse(req *server.Request, clk clock.Clock) (*server.Response, bool) {
	now := clk.Now()
	if !now.Before(e.expireTime) {
		return nil, false
	}
	elapsed := uint32(now.Sub(e.initTime).Seconds())

	resp := server.NewResponse(req)
	resp.Rcode = e.rcode
	resp.RecursionAvailable = true

	idx := 0
	for i := 0; i < e.answerCount; i++ {
		resp.Answer = append(resp.Answer, decayTTL(e.rrsets[idx], elapsed))
		idx++
	}
	for i := 0; i < e.authCount; i++ {
		resp.Authority = append(resp.Authority, decayTTL(e.rrsets[idx], elapsed))
		idx++
	}
	return resp, true
}

func decayTTL(rs rrset.RRset, elapsed uint32) rrset.RRset {
	ttl := uint32(1)
	if elapsed < rs.TTL {
		if d := rs.TTL - elapsed; d > 0 {
			ttl = d
		}
	}
	return rs.WithTTL(ttl)
}
