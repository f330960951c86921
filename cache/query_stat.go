package cache

import (
	"container/list"
	"sort"
	"sync"

	"github.com/xdnsproj/xdns/dnsname"
)

// NameCount is one row of a QueryStatistic.SortAndClear snapshot.
type NameCount struct {
	Name  dnsname.Name
	Count uint64
}

type statItem struct {
	name  dnsname.Name
	count uint64
}

// QueryStatistic is a bounded LRU counter of query name to hit count,
// snapshotted and reset periodically by stats.Reporter.
type QueryStatistic struct {
	cap int

	mu      sync.Mutex
	entries map[dnsname.Name]*list.Element
	order   *list.List
}

// NewQueryStatistic returns an empty statistic bounded to cap distinct
// names (0 means unbounded).
func NewQueryStatistic(cap int) *QueryStatistic {
	return &QueryStatistic{
		cap:     cap,
		entries: make(map[dnsname.Name]*list.Element),
		order:   list.New(),
	}
}

// Len returns the number of distinct names currently counted.
func (q *QueryStatistic) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// AddQuery increments name's hit count, evicting the least recently
// touched name if adding a new one would exceed capacity.
func (q *QueryStatistic) AddQuery(name dnsname.Name) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if elem, ok := q.entries[name]; ok {
		elem.Value.(*statItem).count++
		q.order.MoveToBack(elem)
		return
	}

	elem := q.order.PushBack(&statItem{name: name, count: 1})
	q.entries[name] = elem

	if q.cap > 0 {
		for len(q.entries) > q.cap {
			front := q.order.Front()
			if front == nil {
				break
			}
			q.order.Remove(front)
			delete(q.entries, front.Value.(*statItem).name)
		}
	}
}

// SortAndClear returns every counted name in descending count order and
// resets the statistic to empty.
func (q *QueryStatistic) SortAndClear() []NameCount {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]NameCount, 0, len(q.entries))
	for e := q.order.Front(); e != nil; e = e.Next() {
		item := e.Value.(*statItem)
		out = append(out, NameCount{Name: item.name, Count: item.count})
	}

	q.entries = make(map[dnsname.Name]*list.Element)
	q.order = list.New()

	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
