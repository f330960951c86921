// Package dnsname provides the canonical name representation shared by
// the domain tree, the authoritative zone model and the forwarder table.
//
// DNS names are compared and hashed case-insensitively by label, per
// RFC 1035 §2.3.3. This package leans entirely on github.com/miekg/dns
// for label splitting and FQDN canonicalization rather than re-parsing
// the wire format itself.
package dnsname

import (
	"strings"

	"github.com/miekg/dns"
)

// Name is a canonical, fully-qualified, lower-cased DNS name, stored with
// its trailing dot. It is comparable with == and safe to use as a map key.
type Name string

// New canonicalizes s into a Name: it is FQDN-ified and lower-cased.
func New(s string) Name {
	return Name(strings.ToLower(dns.Fqdn(s)))
}

// String returns the textual form of the name, trailing dot included.
func (n Name) String() string {
	return string(n)
}

// Equal reports whether n and other are the same name. Names are already
// canonicalized on construction, so this is a plain string comparison.
func (n Name) Equal(other Name) bool {
	return n == other
}

// IsSubdomain reports whether n is equal to or a strict descendant of
// other, i.e. other is a suffix of n on a label boundary.
func (n Name) IsSubdomain(other Name) bool {
	return dns.IsSubDomain(string(other), string(n))
}

// Labels splits the name into its individual labels, root-most label
// last removed (the trailing empty label from the final dot).
func (n Name) Labels() []string {
	return dns.SplitDomainName(string(n))
}

// LabelCount returns the number of labels in the name, excluding the
// root label implied by the trailing dot.
func (n Name) LabelCount() int {
	return dns.CountLabel(string(n))
}
