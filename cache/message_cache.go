package cache

import (
	"github.com/jmhodges/clock"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/server"
)

// MessageCache is the recursor's replay cache: a positive and a negative
// bounded LRU, tried in that order.
type MessageCache struct {
	positive *messageLRU
	negative *messageLRU
	clk      clock.Clock
}

// NewMessageCache returns a MessageCache whose two halves are each
// bounded to cap entries (0 selects the default size).
func NewMessageCache(cap int, clk clock.Clock) *MessageCache {
	return &MessageCache{
		positive: newMessageLRU(cap, clk),
		negative: newMessageLRU(cap, clk),
		clk:      clk,
	}
}

// Len reports the total number of entries cached across both halves.
func (c *MessageCache) Len() int {
	return c.positive.len() + c.negative.len()
}

// GenResponse tries the positive cache, then the negative cache; the
// first hit wins.
func (c *MessageCache) GenResponse(req *server.Request) (*server.Response, bool) {
	if resp, ok := c.positive.genResponse(req); ok {
		return resp, true
	}
	return c.negative.genResponse(req)
}

// AddResponse inserts resp under a key built from name/qtype (the
// question actually answered, not necessarily the requester's original
// question), selecting the positive or negative half by whether resp
// carries any Answer RRsets.
func (c *MessageCache) AddResponse(name dnsname.Name, qtype uint16, resp *server.Response) {
	key := entryKey{name: name, qtype: qtype}
	entry := NewMessageEntry(resp, c.clk)
	if len(resp.Answer) > 0 {
		c.positive.addResponse(key, entry)
	} else {
		c.negative.addResponse(key, entry)
	}
}
