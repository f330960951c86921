package server

import (
	"fmt"

	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/rrset"
)

// Response is a handler's answer to a Request, built up section by
// section before being packed to wire. Its id always echoes the
// request's.
type Response struct {
	ID                 uint16
	Rcode              int
	Authoritative      bool
	RecursionAvailable bool

	Answer     []rrset.RRset
	Authority  []rrset.RRset
	Additional []rrset.RRset
}

// NewResponse returns a Response pre-populated with req's id, ready for a
// handler to fill in Rcode and sections.
func NewResponse(req *Request) *Response {
	return &Response{ID: req.ID}
}

// PackBuffer renders the response to wire format, reusing buf's backing
// array when it has enough capacity.
func (r *Response) PackBuffer(buf []byte) ([]byte, error) {
	m := new(dns.Msg)
	m.Id = r.ID
	m.Response = true
	m.Rcode = r.Rcode
	m.Authoritative = r.Authoritative
	m.RecursionAvailable = r.RecursionAvailable

	for _, rs := range r.Answer {
		m.Answer = append(m.Answer, rs.RRs...)
	}
	for _, rs := range r.Authority {
		m.Ns = append(m.Ns, rs.RRs...)
	}
	for _, rs := range r.Additional {
		m.Extra = append(m.Extra, rs.RRs...)
	}
	return m.PackBuffer(buf)
}

// ParseResponse decodes buf as a complete DNS response message. The
// forwarding client uses it to turn an upstream reply into a Response,
// with its sections grouped back into RRsets.
func ParseResponse(buf []byte) (*Response, error) {
	m := new(dns.Msg)
	if err := m.Unpack(buf); err != nil {
		return nil, fmt.Errorf("server: unpacking response: %w", err)
	}
	return &Response{
		ID:                 m.Id,
		Rcode:              m.Rcode,
		Authoritative:      m.Authoritative,
		RecursionAvailable: m.RecursionAvailable,
		Answer:             rrset.GroupRRs(m.Answer),
		Authority:          rrset.GroupRRs(m.Ns),
		Additional:         rrset.GroupRRs(m.Extra),
	}, nil
}
