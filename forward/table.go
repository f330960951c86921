// Package forward implements the recursor's forwarder table, a
// longest-match zone-name lookup to an upstream resolver address, and
// the single-round-trip UDP client used to query it.
package forward

import (
	"net"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/tree"
)

// Table is the forwarder table: zone name to upstream address, resolved
// by longest-match lookup.
type Table struct {
	domains *tree.DomainTree[net.Addr]
}

// NewTable returns an empty forwarder table.
func NewTable() *Table {
	return &Table{domains: tree.New[net.Addr]()}
}

// Add registers addr as the upstream resolver for zone, replacing any
// existing entry for the same name.
func (t *Table) Add(zone dnsname.Name, addr net.Addr) {
	t.domains.Insert(zone, addr)
}

// Lookup returns the upstream address that longest-matches name, if any.
func (t *Table) Lookup(name dnsname.Name) (net.Addr, bool) {
	result := t.domains.Find(name)
	if result.Flag == tree.NotFound {
		return nil, false
	}
	return result.Value()
}
