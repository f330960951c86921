package cache

import (
	"container/list"
	"sync"

	"github.com/jmhodges/clock"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/server"
)

const defaultMessageCacheSize = 10000

type entryKey struct {
	name  dnsname.Name
	qtype uint16
}

type lruItem struct {
	key   entryKey
	entry MessageEntry
}

// messageLRU is a single bounded LRU map from question to MessageEntry,
// backed by a map plus an intrusive doubly linked list.
type messageLRU struct {
	cap int
	clk clock.Clock

	mu      sync.Mutex
	entries map[entryKey]*list.Element
	order   *list.List
}

func newMessageLRU(cap int, clk clock.Clock) *messageLRU {
	if cap <= 0 {
		cap = defaultMessageCacheSize
	}
	return &messageLRU{
		cap:     cap,
		clk:     clk,
		entries: make(map[entryKey]*list.Element),
		order:   list.New(),
	}
}

func (m *messageLRU) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *messageLRU) genResponse(req *server.Request) (*server.Response, bool) {
	key := entryKey{name: req.Question.Name, qtype: req.Question.Type}

	m.mu.Lock()
	elem, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		return nil, false
	}
	m.order.MoveToBack(elem)
	entry := elem.Value.(*lruItem).entry
	m.mu.Unlock()

	return entry.genResponse(req, m.clk)
}

// addResponse inserts entry under key unless a non-expired entry already
// occupies it, so duplicate network answers don't thrash the cache.
func (m *messageLRU) addResponse(key entryKey, entry MessageEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		if !elem.Value.(*lruItem).entry.isExpired(m.clk) {
			return
		}
		elem.Value.(*lruItem).entry = entry
		m.order.MoveToBack(elem)
		return
	}

	elem := m.order.PushBack(&lruItem{key: key, entry: entry})
	m.entries[key] = elem
	m.prune()
}

func (m *messageLRU) prune() {
	for len(m.entries) > m.cap {
		front := m.order.Front()
		if front == nil {
			return
		}
		m.order.Remove(front)
		delete(m.entries, front.Value.(*lruItem).key)
	}
}
