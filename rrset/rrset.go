// Package rrset defines RRset, the owner-name/type/TTL/RDATA grouping
// shared by the zone model, the message cache and the wire-facing
// Request/Response types.
package rrset

import (
	"fmt"

	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/dnsname"
)

// RRset is an owner name, type and TTL shared by an ordered list of RDATA
// items. Value-copyable: callers pass it around by value.
type RRset struct {
	Name dnsname.Name
	Type uint16
	TTL  uint32
	RRs  []dns.RR
}

// RRCount returns the number of RDATA items in the set.
func (r RRset) RRCount() int {
	return len(r.RRs)
}

// Clone returns a deep-enough copy of r suitable for handing to a caller
// that will mutate the TTL, as cache replay does.
func (r RRset) Clone() RRset {
	rrs := make([]dns.RR, len(r.RRs))
	for i, rr := range r.RRs {
		rrs[i] = dns.Copy(rr)
	}
	return RRset{Name: r.Name, Type: r.Type, TTL: r.TTL, RRs: rrs}
}

// WithTTL returns a copy of r with every RR's TTL set to ttl.
func (r RRset) WithTTL(ttl uint32) RRset {
	out := r.Clone()
	out.TTL = ttl
	for _, rr := range out.RRs {
		rr.Header().Ttl = ttl
	}
	return out
}

// NewRRset builds an RRset from one or more master-file-format lines
// that must share the same owner and type, the format the admin API's
// POST /AddRRset accepts.
func NewRRset(lines []string) (RRset, error) {
	if len(lines) == 0 {
		return RRset{}, fmt.Errorf("rrset: empty rrset")
	}
	var rrset RRset
	for i, line := range lines {
		rr, err := dns.NewRR(line)
		if err != nil {
			return RRset{}, fmt.Errorf("rrset: parsing rrset line %q: %w", line, err)
		}
		if i == 0 {
			rrset.Name = dnsname.New(rr.Header().Name)
			rrset.Type = rr.Header().Rrtype
			rrset.TTL = rr.Header().Ttl
		} else {
			if rr.Header().Rrtype != rrset.Type || dnsname.New(rr.Header().Name) != rrset.Name {
				return RRset{}, fmt.Errorf("rrset: rrset lines must share owner and type")
			}
		}
		rrset.RRs = append(rrset.RRs, rr)
	}
	return rrset, nil
}

// GroupRRs groups a flat, ordered RR list (as decoded straight off the
// wire, where same-owner/same-type records are always adjacent) into
// RRsets, one per contiguous run sharing an owner and type. Used to turn
// a forwarded upstream response's sections back into RRsets for the
// cache and the Response type.
func GroupRRs(rrs []dns.RR) []RRset {
	var out []RRset
	for _, rr := range rrs {
		name := dnsname.New(rr.Header().Name)
		typ := rr.Header().Rrtype
		if n := len(out); n > 0 && out[n-1].Name == name && out[n-1].Type == typ {
			out[n-1].RRs = append(out[n-1].RRs, rr)
			continue
		}
		out = append(out, RRset{Name: name, Type: typ, TTL: rr.Header().Ttl, RRs: []dns.RR{rr}})
	}
	return out
}
