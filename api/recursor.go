package api

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/recursor"
)

// addForwardRequest is the body of POST /AddForward.
type addForwardRequest struct {
	Name string `json:"name"`
	Addr string `json:"addr"`
}

func addForwardHandler(rec *recursor.Recursor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addForwardRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		addr, err := net.ResolveUDPAddr("udp", req.Addr)
		if err != nil {
			writeError(w, fmt.Errorf("api: invalid forwarder address %q: %w", req.Addr, err))
			return
		}
		rec.AddForward(dnsname.New(req.Name), addr)
		writeOK(w, req)
	}
}

// NewRecursorRouter builds the admin HTTP router for a recursive
// server: POST /AddForward.
func NewRecursorRouter(rec *recursor.Recursor) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/AddForward", addForwardHandler(rec)).Methods(http.MethodPost)
	return r
}
