// Package zone implements the authoritative zone model: a single zone's
// tree of record sets, apex/delegation bookkeeping, glue resolution, and
// the query walk that distinguishes Success / Delegation / NXDomain /
// NXRRset.
package zone

import (
	"sync"

	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/rrset"
	"github.com/xdnsproj/xdns/tree"
)

// FindMode selects how MemoryZone.Find walks the zone's tree.
type FindMode int

const (
	// DefaultFind installs a delegation-detecting callback: an NS RRset
	// found on a delegation-cut node (a callback-flagged, non-apex NS
	// owner) visited during descent halts the walk and reports a
	// Delegation. The apex NS never does.
	DefaultFind FindMode = iota
	// GlueOkFind walks with no callback. It resolves glue records that
	// live below a delegation cut without re-hitting the cut itself.
	GlueOkFind
)

// ResultKind is the outcome of MemoryZone.Find.
type ResultKind int

const (
	// NXDomain means the name is not present in the zone.
	NXDomain ResultKind = iota
	// Success means an RRset of the requested type was found at name.
	Success
	// Delegation means name lies at or below an in-zone NS cut.
	Delegation
	// NXRRset means name is present but not for the requested type.
	NXRRset
)

// FindResult is the outcome of a MemoryZone.Find call.
type FindResult struct {
	Kind  ResultKind
	RRset rrset.RRset // valid for Success and Delegation
}

// MemoryZone holds one authoritative zone: an origin name plus a tree of
// RRsets keyed by owner name.
type MemoryZone struct {
	origin dnsname.Name

	mu      sync.RWMutex
	domains *tree.DomainTree[[]rrset.RRset]
}

// New returns an empty zone for origin, with no records; callers
// (typically auth.Auth.AddZone) are expected to seed the apex SOA/NS.
func New(origin dnsname.Name) *MemoryZone {
	return &MemoryZone{origin: origin, domains: tree.New[[]rrset.RRset]()}
}

// Origin returns the zone's origin name.
func (z *MemoryZone) Origin() dnsname.Name {
	return z.origin
}

// AddRRset inserts rs into the zone, replacing any existing RRset of the
// same type at the same owner. If rs's owner isn't the origin and its
// type is NS, the owner node's callback flag is set, marking a
// delegation cut.
func (z *MemoryZone) AddRRset(rs rrset.RRset) {
	z.mu.Lock()
	defer z.mu.Unlock()

	isDelegation := rs.Name != z.origin && rs.Type == dns.TypeNS

	result := z.domains.Find(rs.Name)
	if result.Flag != tree.ExactMatch {
		n := z.domains.Insert(rs.Name, []rrset.RRset{rs})
		if isDelegation {
			n.SetCallback(true)
		}
		return
	}

	node, _ := result.Node()
	rrsets, _ := node.Value()
	replaced := false
	for i, existing := range rrsets {
		if existing.Type == rs.Type {
			rrsets[i] = rs
			replaced = true
			break
		}
	}
	if !replaced {
		rrsets = append(rrsets, rs)
	}
	node.SetValue(rrsets)
	if isDelegation {
		node.SetCallback(true)
	}
}

// Find walks the zone's tree for name/typ under the given mode, returning
// Success, Delegation, NXDomain or NXRRset.
func (z *MemoryZone) Find(name dnsname.Name, typ uint16, mode FindMode) FindResult {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var delegation *rrset.RRset
	var cb tree.CallbackFunc[[]rrset.RRset]
	if mode == DefaultFind {
		cb = func(n tree.Node[[]rrset.RRset]) bool {
			rrsets, _ := n.Value()
			for _, rs := range rrsets {
				if rs.Type == dns.TypeNS {
					r := rs
					delegation = &r
					return true
				}
			}
			return false
		}
	}

	result := z.domains.FindNodeExt(name, cb)
	if delegation != nil {
		return FindResult{Kind: Delegation, RRset: *delegation}
	}

	switch result.Flag {
	case tree.ExactMatch:
		rrsets, _ := result.Value()
		for _, rs := range rrsets {
			if rs.Type == typ {
				return FindResult{Kind: Success, RRset: rs}
			}
		}
		return FindResult{Kind: NXRRset}
	default:
		return FindResult{Kind: NXDomain}
	}
}

// GetApexRRset returns the apex's RRset of the requested type, if any.
// NXDomain answers use it to place the SOA in the Authority section.
func (z *MemoryZone) GetApexRRset(typ uint16) (rrset.RRset, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	result := z.domains.Find(z.origin)
	if result.Flag != tree.ExactMatch {
		return rrset.RRset{}, false
	}
	rrsets, _ := result.Value()
	for _, rs := range rrsets {
		if rs.Type == typ {
			return rs, true
		}
	}
	return rrset.RRset{}, false
}

// GetGlueForNS resolves A glue for each NS target in ns that is a
// sub-domain of the zone's origin. Out-of-bailiwick NS targets are
// silently skipped: glue for an out-of-bailiwick nameserver is not this
// zone's to give.
func (z *MemoryZone) GetGlueForNS(ns rrset.RRset) []rrset.RRset {
	glues := make([]rrset.RRset, 0, ns.RRCount())
	for _, rr := range ns.RRs {
		nsRR, ok := rr.(*dns.NS)
		if !ok {
			continue
		}
		target := dnsname.New(nsRR.Ns)
		if !target.IsSubdomain(z.origin) {
			continue
		}
		result := z.Find(target, dns.TypeA, GlueOkFind)
		if result.Kind == Success {
			glues = append(glues, result.RRset)
		}
	}
	return glues
}
