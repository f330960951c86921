package forward

import (
	"fmt"
	"net"
	"time"

	"github.com/xdnsproj/xdns/server"
)

// roundtripTimeout bounds a single forwarding round trip.
const roundtripTimeout = 3 * time.Second

const (
	queryBufferLen    = 512
	responseBufferLen = 1232
)

// Roundtrip binds an ephemeral UDP socket, connects it to target, sends
// req encoded to wire, and waits up to roundtripTimeout for one
// datagram, which it decodes and returns. Any transport error or timeout
// is returned as an error. The outgoing packet's id equals req.ID, since
// req.Msg is re-encoded as received.
func Roundtrip(req *server.Request, target net.Addr) (*server.Response, error) {
	conn, err := net.Dial(target.Network(), target.String())
	if err != nil {
		return nil, fmt.Errorf("forward: dial %s: %w", target, err)
	}
	defer conn.Close()

	reqBuf, err := req.Msg.Pack()
	if err != nil {
		return nil, fmt.Errorf("forward: packing request: %w", err)
	}
	if len(reqBuf) > queryBufferLen {
		return nil, fmt.Errorf("forward: request exceeds %d bytes", queryBufferLen)
	}

	if err := conn.SetDeadline(time.Now().Add(roundtripTimeout)); err != nil {
		return nil, fmt.Errorf("forward: setting deadline: %w", err)
	}
	if _, err := conn.Write(reqBuf); err != nil {
		return nil, fmt.Errorf("forward: sending query: %w", err)
	}

	respBuf := make([]byte, responseBufferLen)
	n, err := conn.Read(respBuf)
	if err != nil {
		return nil, fmt.Errorf("forward: receiving response: %w", err)
	}

	resp, err := server.ParseResponse(respBuf[:n])
	if err != nil {
		return nil, fmt.Errorf("forward: decoding response: %w", err)
	}
	return resp, nil
}
