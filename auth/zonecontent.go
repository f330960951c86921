package auth

import (
	"fmt"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/rrset"
)

// defaultSOA builds the zone's seed SOA:
// `{name} 3600 IN SOA hd.fuxi. root.fuxi. 1 600 300 2419200 600`.
func defaultSOA(origin dnsname.Name) (rrset.RRset, error) {
	line := fmt.Sprintf("%s 3600 IN SOA hd.fuxi. root.fuxi. 1 600 300 2419200 600", origin.String())
	return rrset.NewRRset([]string{line})
}

// defaultNS builds the zone's seed NS RRset: `{name} 3600 IN NS ns.{name}`.
func defaultNS(origin dnsname.Name) (rrset.RRset, error) {
	line := fmt.Sprintf("%s 3600 IN NS ns.%s", origin.String(), origin.String())
	return rrset.NewRRset([]string{line})
}

// defaultGlue builds the A glue RRset for ns.{origin}, one record per
// supplied IP: `ns.{name} 3600 IN A {ip}`. A zone seeded with zero IPs
// still gets its SOA and NS; this returns ok=false so the caller skips
// the glue entirely.
func defaultGlue(origin dnsname.Name, ips []string) (rrset.RRset, bool, error) {
	if len(ips) == 0 {
		return rrset.RRset{}, false, nil
	}
	lines := make([]string, len(ips))
	for i, ip := range ips {
		lines[i] = fmt.Sprintf("ns.%s 3600 IN A %s", origin.String(), ip)
	}
	rs, err := rrset.NewRRset(lines)
	if err != nil {
		return rrset.RRset{}, false, err
	}
	return rs, true, nil
}
