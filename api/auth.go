package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xdnsproj/xdns/auth"
	"github.com/xdnsproj/xdns/dnsname"
	"github.com/xdnsproj/xdns/rrset"
)

// addZoneRequest is the body of POST /AddZone.
type addZoneRequest struct {
	Name string   `json:"name"`
	IPs  []string `json:"ips"`
}

// addRRsetRequest is the body of POST /AddRRset: rrset is one or more
// master-file-format lines sharing an owner and type.
type addRRsetRequest struct {
	Zone  string   `json:"zone"`
	RRset []string `json:"rrset"`
}

func addZoneHandler(a *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addZoneRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := a.AddZone(dnsname.New(req.Name), req.IPs); err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, req)
	}
}

func addRRsetHandler(a *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRRsetRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		rs, err := rrset.NewRRset(req.RRset)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := a.AddRRset(dnsname.New(req.Zone), rs); err != nil {
			writeError(w, err)
			return
		}
		writeOK(w, req)
	}
}

// NewAuthRouter builds the admin HTTP router for an authoritative
// server: POST /AddZone, POST /AddRRset.
func NewAuthRouter(a *auth.Auth) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/AddZone", addZoneHandler(a)).Methods(http.MethodPost)
	r.HandleFunc("/AddRRset", addRRsetHandler(a)).Methods(http.MethodPost)
	return r
}
