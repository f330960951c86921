package forward

import (
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/server"
)

func TestTableLongestMatch(t *testing.T) {
	tbl := NewTable()
	outer := &net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 53}
	inner := &net.UDPAddr{IP: net.ParseIP("192.0.2.2"), Port: 53}

	tbl.Add(dnsname.New("example.com."), outer)
	tbl.Add(dnsname.New("sub.example.com."), inner)

	if _, ok := tbl.Lookup(dnsname.New("other.net.")); ok {
		t.Fatal("expected a miss for an unrelated name")
	}

	addr, ok := tbl.Lookup(dnsname.New("www.example.com."))
	if !ok || addr.String() != outer.String() {
		t.Fatalf("expected %s, got %v (ok=%v)", outer, addr, ok)
	}

	addr, ok = tbl.Lookup(dnsname.New("host.sub.example.com."))
	if !ok || addr.String() != inner.String() {
		t.Fatalf("expected longest match %s, got %v (ok=%v)", inner, addr, ok)
	}
}

func TestRoundtripTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the full roundtrip timeout")
	}

	// An upstream that never answers.
	upstream, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	defer upstream.Close()

	q := new(dns.Msg)
	q.SetQuestion("test.example.com.", dns.TypeA)
	buf, err := q.Pack()
	if err != nil {
		t.Fatalf("packing query: %v", err)
	}
	req, err := server.ParseRequest(buf)
	if err != nil {
		t.Fatalf("parsing request: %v", err)
	}

	start := time.Now()
	_, err = Roundtrip(req, upstream.LocalAddr())
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected a timeout error from a silent upstream")
	}
	if elapsed < roundtripTimeout-50*time.Millisecond || elapsed > roundtripTimeout+500*time.Millisecond {
		t.Fatalf("timeout fired after %v, want about %v", elapsed, roundtripTimeout)
	}
}

func TestRoundtrip(t *testing.T) {
	upstream, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	defer upstream.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 512)
		n, peer, err := upstream.ReadFromUDP(buf)
		if err != nil {
			return
		}
		q := new(dns.Msg)
		if err := q.Unpack(buf[:n]); err != nil {
			return
		}
		resp := new(dns.Msg)
		resp.SetReply(q)
		rr, _ := dns.NewRR("test.example.com. 3600 IN A 192.0.2.9")
		resp.Answer = []dns.RR{rr}
		out, err := resp.Pack()
		if err != nil {
			return
		}
		upstream.WriteToUDP(out, peer)
	}()

	q := new(dns.Msg)
	q.SetQuestion("test.example.com.", dns.TypeA)
	q.Id = 42
	buf, err := q.Pack()
	if err != nil {
		t.Fatalf("packing query: %v", err)
	}
	req, err := server.ParseRequest(buf)
	if err != nil {
		t.Fatalf("parsing request: %v", err)
	}

	resp, err := Roundtrip(req, upstream.LocalAddr())
	if err != nil {
		t.Fatalf("Roundtrip: %v", err)
	}
	<-done

	if resp.ID != 42 {
		t.Fatalf("response id = %d, want 42", resp.ID)
	}
	if len(resp.Answer) != 1 || resp.Answer[0].RRs[0].(*dns.A).A.String() != "192.0.2.9" {
		t.Fatalf("unexpected answer: %#v", resp.Answer)
	}
}
