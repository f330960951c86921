package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdnsproj/xdns/dnsname"
)

func TestFindExactAndPartial(t *testing.T) {
	tr := New[int]()
	tr.Insert(dnsname.New("example.com."), 1)
	tr.Insert(dnsname.New("sub.example.com."), 2)

	r := tr.Find(dnsname.New("example.com."))
	require.Equal(t, ExactMatch, r.Flag)
	v, ok := r.Value()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	r = tr.Find(dnsname.New("www.example.com."))
	require.Equal(t, PartialMatch, r.Flag)
	v, _ = r.Value()
	assert.Equal(t, 1, v)

	r = tr.Find(dnsname.New("a.b.sub.example.com."))
	require.Equal(t, PartialMatch, r.Flag)
	v, _ = r.Value()
	assert.Equal(t, 2, v, "partial match must pick the deepest ancestor")

	r = tr.Find(dnsname.New("other.net."))
	assert.Equal(t, NotFound, r.Flag)

	// com. has nodes below it but no value of its own.
	r = tr.Find(dnsname.New("com."))
	assert.Equal(t, NotFound, r.Flag)
}

func TestInsertReplaces(t *testing.T) {
	tr := New[string]()
	tr.Insert(dnsname.New("example.com."), "old")
	tr.Insert(dnsname.New("example.com."), "new")

	r := tr.Find(dnsname.New("example.com."))
	require.Equal(t, ExactMatch, r.Flag)
	v, _ := r.Value()
	assert.Equal(t, "new", v)
}

func TestFindNodeExtCallbackGatedOnFlag(t *testing.T) {
	tr := New[string]()
	tr.Insert(dnsname.New("example.com."), "apex")
	cut := tr.Insert(dnsname.New("sub.example.com."), "cut")
	cut.SetCallback(true)

	var visited []string
	cb := func(n Node[string]) bool {
		v, _ := n.Value()
		visited = append(visited, v)
		return true
	}

	// The apex has a value but no flag, so descent passes straight
	// through it and halts on the flagged cut.
	r := tr.FindNodeExt(dnsname.New("x.sub.example.com."), cb)
	require.Equal(t, PartialMatch, r.Flag)
	v, _ := r.Value()
	assert.Equal(t, "cut", v)
	assert.Equal(t, []string{"cut"}, visited)
}

func TestFindNodeExtCallbackFiresOnExactFlaggedNode(t *testing.T) {
	tr := New[string]()
	cut := tr.Insert(dnsname.New("sub.example.com."), "cut")
	cut.SetCallback(true)

	r := tr.FindNodeExt(dnsname.New("sub.example.com."), func(Node[string]) bool { return true })
	assert.Equal(t, PartialMatch, r.Flag, "a query landing exactly on a flagged node still halts there")
}

func TestFindNodeExtCallbackDeclines(t *testing.T) {
	tr := New[string]()
	n := tr.Insert(dnsname.New("example.com."), "apex")
	n.SetCallback(true)

	r := tr.FindNodeExt(dnsname.New("example.com."), func(Node[string]) bool { return false })
	assert.Equal(t, ExactMatch, r.Flag, "a declining callback leaves the exact match intact")
}

func TestFindNodeExtNoCallback(t *testing.T) {
	tr := New[string]()
	cut := tr.Insert(dnsname.New("sub.example.com."), "cut")
	cut.SetCallback(true)

	// GlueOkFind-style walk: nil callback reads straight through a cut.
	tr.Insert(dnsname.New("ns1.sub.example.com."), "glue")
	r := tr.FindNodeExt(dnsname.New("ns1.sub.example.com."), nil)
	require.Equal(t, ExactMatch, r.Flag)
	v, _ := r.Value()
	assert.Equal(t, "glue", v)
}

func TestFindNodeExtPartialWithoutFlag(t *testing.T) {
	tr := New[string]()
	tr.Insert(dnsname.New("example.com."), "apex")

	r := tr.FindNodeExt(dnsname.New("www.example.com."), nil)
	require.Equal(t, PartialMatch, r.Flag)
	v, _ := r.Value()
	assert.Equal(t, "apex", v)
}

func TestCaseInsensitiveLookup(t *testing.T) {
	tr := New[int]()
	tr.Insert(dnsname.New("Example.COM."), 7)

	r := tr.Find(dnsname.New("example.com."))
	require.Equal(t, ExactMatch, r.Flag)

	r = tr.Find(dnsname.New("WWW.EXAMPLE.COM."))
	assert.Equal(t, PartialMatch, r.Flag)
}
