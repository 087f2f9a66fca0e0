package simulator

import (
	"asyncsim/analysis"
	"asyncsim/checking"
	"asyncsim/protocol"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Summary of the delays of the delivered messages.
// The delay of a message is the step it was delivered at minus the step it was sent at.
type DelayStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Summary of the backlog of the network, sampled after every step
type LoadStats struct {
	AvgBacklog     float64 `json:"avgBacklog"`
	MaxBacklog     int     `json:"maxBacklog"`
	AvgActiveLinks float64 `json:"avgActiveLinks"`
	MaxActiveLinks int     `json:"maxActiveLinks"`
}

// The decision of a single process
type ProcessDecision struct {
	Process int    `json:"process"`
	Alive   bool   `json:"alive"`
	Decided bool   `json:"decided"`
	Value   int    `json:"value"`
	Rule    string `json:"rule,omitempty"`
}

// The summary of a simulation
type FinalReport struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
	Steps int    `json:"steps"`
	Nodes int    `json:"nodes"`

	Created   int `json:"created"`
	Delivered int `json:"delivered"`
	Pending   int `json:"pending"`

	Faults  []Fault `json:"faults"`
	Crashed []int   `json:"crashed"`

	// The scheduled connectivity snapshots
	Snapshots []analysis.Report `json:"snapshots"`
	// The first snapshot step with a weakly/strongly connected cumulative graph, -1 if never observed
	WeaklyConnectedAt   int `json:"weaklyConnectedAt"`
	StronglyConnectedAt int `json:"stronglyConnectedAt"`
	// The connectivity at the end of the run
	Connectivity analysis.Report `json:"connectivity"`
	// The fraction of the n*(n-1) links a message was delivered on
	LinkCoverage float64 `json:"linkCoverage"`

	Delay DelayStats `json:"delay"`
	Load  LoadStats  `json:"load"`

	// Only set for protocols that decide
	Decisions []ProcessDecision `json:"decisions,omitempty"`
	// Only set if a property checker is configured
	Properties *checking.Response `json:"properties,omitempty"`
}

type statistics struct {
	delays []float64

	samples    int
	backlogSum int
	backlogMax int
	activeSum  int
	activeMax  int
}

func newStatistics() *statistics {
	return &statistics{delays: []float64{}}
}

func (s *statistics) delivered(delay int) {
	s.delays = append(s.delays, float64(delay))
}

func (s *statistics) load(backlog, active int) {
	s.samples++
	s.backlogSum += backlog
	s.backlogMax = max(s.backlogMax, backlog)
	s.activeSum += active
	s.activeMax = max(s.activeMax, active)
}

func (s *statistics) delayStats() DelayStats {
	if len(s.delays) == 0 {
		return DelayStats{}
	}
	sorted := slices.Clone(s.delays)
	slices.Sort(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return DelayStats{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
}

func (s *statistics) loadStats() LoadStats {
	if s.samples == 0 {
		return LoadStats{}
	}
	return LoadStats{
		AvgBacklog:     float64(s.backlogSum) / float64(s.samples),
		MaxBacklog:     s.backlogMax,
		AvgActiveLinks: float64(s.activeSum) / float64(s.samples),
		MaxActiveLinks: s.activeMax,
	}
}

// Summarize the simulation in its current state
func (s *Simulator) Report() FinalReport {
	n := s.net.N()
	r := FinalReport{
		State:               s.state.String(),
		Steps:               s.step,
		Nodes:               n,
		Created:             s.net.Created(),
		Delivered:           s.net.Delivered(),
		Pending:             s.net.Pending(),
		Faults:              append([]Fault{}, s.faults...),
		Crashed:             []int{},
		Snapshots:           s.analyzer.Snapshots(),
		WeaklyConnectedAt:   -1,
		StronglyConnectedAt: -1,
		Connectivity:        s.analyzer.Inspect(s.step, s.net.PendingLinks()),
		Delay:               s.stats.delayStats(),
		Load:                s.stats.loadStats(),
	}
	if s.err != nil {
		r.Error = s.err.Error()
	}
	for id := 0; id < n; id++ {
		if !s.net.Alive(id) {
			r.Crashed = append(r.Crashed, id)
		}
	}
	if step, ok := s.analyzer.WeaklyConnectedAt(); ok {
		r.WeaklyConnectedAt = step
	}
	if step, ok := s.analyzer.StronglyConnectedAt(); ok {
		r.StronglyConnectedAt = step
	}
	if n > 1 {
		r.LinkCoverage = float64(r.Connectivity.Edges) / float64(n*(n-1))
	}

	if d, ok := s.proto.(protocol.Decider); ok {
		r.Decisions = make([]ProcessDecision, 0, n)
		for id := 0; id < n; id++ {
			p, err := s.net.Process(id)
			if err != nil {
				continue
			}
			decision := d.Decision(p)
			r.Decisions = append(r.Decisions, ProcessDecision{
				Process: id,
				Alive:   p.Alive,
				Decided: decision.Decided,
				Value:   decision.Value,
				Rule:    decision.Rule,
			})
		}
	}
	if s.checker != nil {
		resp := s.checker.Check(s.net, s.state.Terminal())
		r.Properties = &resp
	}
	return r
}

// Returns true if every alive process has decided and all of them decided the same value
func (r FinalReport) Unanimous() (int, bool) {
	value, seen := 0, false
	for _, d := range r.Decisions {
		if !d.Alive {
			continue
		}
		if !d.Decided {
			return 0, false
		}
		if seen && d.Value != value {
			return 0, false
		}
		value, seen = d.Value, true
	}
	return value, seen
}

// Convert the report to a protobuf Struct
func (r FinalReport) Struct() (*structpb.Struct, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// Restore a report from the protobuf Struct created by Struct
func ReportFromStruct(s *structpb.Struct) (FinalReport, error) {
	data, err := protojson.Marshal(s)
	if err != nil {
		return FinalReport{}, err
	}
	r := FinalReport{}
	if err := json.Unmarshal(data, &r); err != nil {
		return FinalReport{}, fmt.Errorf("simulator: Unable to decode report: %w", err)
	}
	return r, nil
}

// Encode the report as indented JSON
func (r FinalReport) JSON() ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

// A human readable summary of the report
func (r FinalReport) String() string {
	var sb strings.Builder
	wr := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintf(wr, "State:\t%v\n", r.State)
	if r.Error != "" {
		fmt.Fprintf(wr, "Error:\t%v\n", r.Error)
	}
	fmt.Fprintf(wr, "Steps:\t%v\n", r.Steps)
	fmt.Fprintf(wr, "Messages:\t%v created, %v delivered, %v pending\n", r.Created, r.Delivered, r.Pending)
	fmt.Fprintf(wr, "Crashed:\t%v\n", r.Crashed)
	fmt.Fprintf(wr, "Link coverage:\t%.1f%%\n", 100*r.LinkCoverage)
	fmt.Fprintf(wr, "Weakly connected at:\t%v\n", r.WeaklyConnectedAt)
	fmt.Fprintf(wr, "Strongly connected at:\t%v\n", r.StronglyConnectedAt)
	fmt.Fprintf(wr, "Delay:\tmean %.2f, median %v, min %v, max %v, p95 %v, p99 %v\n", r.Delay.Mean, r.Delay.Median, r.Delay.Min, r.Delay.Max, r.Delay.P95, r.Delay.P99)
	fmt.Fprintf(wr, "Backlog:\tavg %.1f, max %v\n", r.Load.AvgBacklog, r.Load.MaxBacklog)
	for _, d := range r.Decisions {
		switch {
		case !d.Alive:
			fmt.Fprintf(wr, "Process %v:\tcrashed\n", d.Process)
		case d.Decided:
			fmt.Fprintf(wr, "Process %v:\tdecided %v (%v)\n", d.Process, d.Value, d.Rule)
		default:
			fmt.Fprintf(wr, "Process %v:\tundecided\n", d.Process)
		}
	}
	if r.Properties != nil {
		_, out := r.Properties.Response()
		fmt.Fprintf(wr, "Properties:\t%v\n", out)
	}
	wr.Flush()
	return sb.String()
}
