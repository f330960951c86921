// Package auth implements the authoritative query handler: a set of
// zones indexed by origin, serving one question by locating the deepest
// covering zone and delegating to it.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/rrset"
	"github.com/xdnsproj/xdns/server"
	"github.com/xdnsproj/xdns/tree"
	"github.com/xdnsproj/xdns/zone"
)

// ErrDuplicateZone is returned by AddZone when the origin already exists.
var ErrDuplicateZone = errors.New("auth: duplicate zone")

// ErrUnknownZone is returned by AddRRset when zone_name has no zone.
var ErrUnknownZone = errors.New("auth: unknown zone")

// Auth is the authoritative handler: a DomainTree of zones, each keyed by
// its origin, guarded by a single reader/writer lock so concurrent
// resolves never block each other and admin writes serialize with all of
// them.
type Auth struct {
	mu    sync.RWMutex
	zones *tree.DomainTree[*zone.MemoryZone]
}

// New returns an Auth handler with no zones configured.
func New() *Auth {
	return &Auth{zones: tree.New[*zone.MemoryZone]()}
}

// AddZone creates a new zone at name, seeded with a default SOA, a
// default NS, and A glue for ns.{name} with one record per supplied IP,
// so a fresh zone is immediately answerable. It fails if name is already
// a zone.
func (a *Auth) AddZone(name dnsname.Name, ips []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if result := a.zones.Find(name); result.Flag == tree.ExactMatch {
		return fmt.Errorf("%w: %s", ErrDuplicateZone, name)
	}

	z := zone.New(name)
	soa, err := defaultSOA(name)
	if err != nil {
		return err
	}
	z.AddRRset(soa)

	ns, err := defaultNS(name)
	if err != nil {
		return err
	}
	z.AddRRset(ns)

	if glue, ok, err := defaultGlue(name, ips); err != nil {
		return err
	} else if ok {
		z.AddRRset(glue)
	}

	a.zones.Insert(name, z)
	return nil
}

// AddRRset appends or replaces rrset in the existing zone named
// zoneName. It fails with ErrUnknownZone if no such zone exists.
func (a *Auth) AddRRset(zoneName dnsname.Name, rs rrset.RRset) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := a.zones.Find(zoneName)
	if result.Flag != tree.ExactMatch {
		return fmt.Errorf("%w: %s", ErrUnknownZone, zoneName)
	}
	z, _ := result.Value()
	z.AddRRset(rs)
	return nil
}

// Resolve implements server.Handler: it locates the deepest zone
// covering the question's name and walks it, mapping the walk's outcome
// onto the response sections and rcode.
func (a *Auth) Resolve(req *server.Request) *server.Response {
	a.mu.RLock()
	defer a.mu.RUnlock()

	resp := server.NewResponse(req)
	resp.Authoritative = true

	result := a.zones.Find(req.Question.Name)
	if result.Flag != tree.ExactMatch && result.Flag != tree.PartialMatch {
		resp.Rcode = dns.RcodeRefused
		return resp
	}

	z, _ := result.Value()
	found := z.Find(req.Question.Name, req.Question.Type, zone.DefaultFind)
	switch found.Kind {
	case zone.Success:
		resp.Rcode = dns.RcodeSuccess
		resp.Answer = []rrset.RRset{found.RRset}
		// Any NS answer carries its glue in Additional, not only a
		// delegation: an apex NS query gets its nameserver addresses
		// without the apex having to look like a cut.
		if found.RRset.Type == dns.TypeNS {
			resp.Additional = z.GetGlueForNS(found.RRset)
		}
	case zone.Delegation:
		resp.Rcode = dns.RcodeSuccess
		resp.Authority = []rrset.RRset{found.RRset}
		resp.Additional = z.GetGlueForNS(found.RRset)
	case zone.NXDomain:
		resp.Rcode = dns.RcodeNameError
		if soa, ok := z.GetApexRRset(dns.TypeSOA); ok {
			resp.Authority = []rrset.RRset{soa}
		}
	case zone.NXRRset:
		resp.Rcode = dns.RcodeSuccess
	}
	return resp
}
