// Package distributed implements the master/worker message-passing
// variant of SPEC_FULL.md §4.6: one master owns the store, size-1 workers
// execute tasks, and the two exchange tagged messages over an injectable
// Channel.
package distributed

import "encoding/json"

// Tag identifies the kind of a message exchanged between master and
// worker ranks.
type Tag string

const (
	TagReadyWorker    Tag = "READY_WORKER"
	TagRecvWork       Tag = "RECV_WORK"
	TagResultsWorker  Tag = "RESULTS_WORKER"
	TagStopWork       Tag = "STOP_WORK"
	TagKilledWorker   Tag = "KILLED_WORKER"
)

// WorkPayload is the RECV_WORK message body.
type WorkPayload struct {
	Cmd string `json:"cmd"`
	ID  string `json:"id"`
}

// ResultPayload is the RESULTS_WORKER message body.
type ResultPayload struct {
	Status int    `json:"status"`
	ID     string `json:"id"`
}

func encode(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func decodeWork(b []byte) (WorkPayload, error) {
	var p WorkPayload
	err := json.Unmarshal(b, &p)
	return p, err
}

func decodeResult(b []byte) (ResultPayload, error) {
	var p ResultPayload
	err := json.Unmarshal(b, &p)
	return p, err
}
