package server

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/miekg/dns"
)

// QueryLog describes one served query: the trace id assigned on receipt,
// the question, the outcome and how long resolution took. The serving
// loop marshals one of these to JSON per answered query.
type QueryLog struct {
	ID      string
	Name    string
	Type    string
	Rcode   string
	Latency time.Duration
	Answers int `json:",omitempty"`
}

func newQueryLog(req *Request) *QueryLog {
	id, _ := uuid.NewV7()
	return &QueryLog{
		ID:   id.String(),
		Name: req.Question.Name.String(),
		Type: dns.TypeToString[req.Question.Type],
	}
}

func (ql *QueryLog) finish(resp *Response, started time.Time) {
	ql.Rcode = dns.RcodeToString[resp.Rcode]
	ql.Latency = time.Since(started)
	for _, rs := range resp.Answer {
		ql.Answers += rs.RRCount()
	}
}

// String renders the log record as JSON, ready for a logger.
func (ql *QueryLog) String() string {
	j, err := json.Marshal(ql)
	if err != nil {
		return ql.Name
	}
	return string(j)
}
