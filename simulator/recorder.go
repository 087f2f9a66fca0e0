package simulator

import (
	"asyncsim/analysis"
	"asyncsim/network"
	"fmt"
	"strings"
)

// A delivered message without its payload
type Delivery struct {
	Step   int    `json:"step"`
	ID     uint64 `json:"id"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	SentAt int    `json:"sentAt"`
}

func (d Delivery) String() string {
	return fmt.Sprintf("\t[Step: %v Id: %v From: %v To: %v SentAt: %v]\n", d.Step, d.ID, d.From, d.To, d.SentAt)
}

// A crash of a process
type Fault struct {
	Step    int `json:"step"`
	Process int `json:"process"`
}

// The recorded events of a run
type Trace struct {
	Deliveries []Delivery `json:"deliveries"`
	Faults     []Fault    `json:"faults"`
}

// The sequence of links that were chosen. Used to replay the run.
func (t Trace) Links() []network.Link {
	out := make([]network.Link, len(t.Deliveries))
	for i, d := range t.Deliveries {
		out[i] = network.Link{From: d.From, To: d.To}
	}
	return out
}

// Returns true if both traces contain the same events in the same order
func (t Trace) Equal(o Trace) bool {
	if len(t.Deliveries) != len(o.Deliveries) || len(t.Faults) != len(o.Faults) {
		return false
	}
	for i := range t.Deliveries {
		if t.Deliveries[i] != o.Deliveries[i] {
			return false
		}
	}
	for i := range t.Faults {
		if t.Faults[i] != o.Faults[i] {
			return false
		}
	}
	return true
}

func (t Trace) String() string {
	var sb strings.Builder
	for _, d := range t.Deliveries {
		sb.WriteString(d.String())
	}
	for _, f := range t.Faults {
		sb.WriteString(fmt.Sprintf("\t[Step: %v Crash: %v]\n", f.Step, f.Process))
	}
	return sb.String()
}

// Records the deliveries and faults of a simulation
type Recorder struct {
	trace Trace
}

func NewRecorder() *Recorder {
	return &Recorder{trace: Trace{Deliveries: []Delivery{}, Faults: []Fault{}}}
}

func (r *Recorder) OnDelivery(step int, msg network.Message) {
	r.trace.Deliveries = append(r.trace.Deliveries, Delivery{
		Step:   step,
		ID:     msg.ID,
		From:   msg.From,
		To:     msg.To,
		SentAt: msg.SentAt,
	})
}

func (r *Recorder) OnFault(step int, id int) {
	r.trace.Faults = append(r.trace.Faults, Fault{Step: step, Process: id})
}

func (r *Recorder) OnAnalysisSnapshot(int, analysis.Report) {}

// The trace recorded so far
func (r *Recorder) Trace() Trace {
	return Trace{
		Deliveries: append([]Delivery{}, r.trace.Deliveries...),
		Faults:     append([]Fault{}, r.trace.Faults...),
	}
}
