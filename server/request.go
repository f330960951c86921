// Package server implements the wire-facing Request/Response pair shared
// by the auth and recursor handlers, the Handler interface they both
// satisfy, and the UDP serving loop that ties them to the network.
package server

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/dnsname"
)

// ErrNoQuestion is returned by ParseRequest when the wire message carries
// zero or more than one question; the serving loop drops such a request
// rather than answering it.
var ErrNoQuestion = errors.New("server: request must carry exactly one question")

// Question is the single name/type pair a Request resolves.
type Question struct {
	Name dnsname.Name
	Type uint16
}

// Request is a decoded incoming query: an id to echo, the single
// question it asks, and the underlying message for handlers (recursor
// forwarding, in particular) that need to re-encode it wholesale.
type Request struct {
	ID       uint16
	Question Question
	Msg      *dns.Msg
}

// ParseRequest decodes buf into a Request. It fails if the wire format is
// invalid or the message doesn't carry exactly one question.
func ParseRequest(buf []byte) (*Request, error) {
	msg := new(dns.Msg)
	if err := msg.Unpack(buf); err != nil {
		return nil, fmt.Errorf("server: unpacking request: %w", err)
	}
	if len(msg.Question) != 1 {
		return nil, ErrNoQuestion
	}
	q := msg.Question[0]
	return &Request{
		ID:       msg.Id,
		Question: Question{Name: dnsname.New(q.Name), Type: q.Qtype},
		Msg:      msg,
	}, nil
}
