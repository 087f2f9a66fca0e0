package simulator

import (
	"asyncsim/analysis"
	"asyncsim/network"
)

// Receives the events of the simulation as they happen.
// The hooks are invoked synchronously from within the step and must not modify the simulation.
type Observer interface {
	OnDelivery(step int, msg network.Message)
	OnFault(step int, id int)
	OnAnalysisSnapshot(step int, report analysis.Report)
}

// An observer that ignores all events.
// Embed it to implement only some of the hooks.
type NopObserver struct{}

func (NopObserver) OnDelivery(int, network.Message)         {}
func (NopObserver) OnFault(int, int)                        {}
func (NopObserver) OnAnalysisSnapshot(int, analysis.Report) {}

// An observer made from functions. Nil functions are ignored.
type ObserverFuncs struct {
	Delivery func(step int, msg network.Message)
	Fault    func(step int, id int)
	Snapshot func(step int, report analysis.Report)
}

func (o ObserverFuncs) OnDelivery(step int, msg network.Message) {
	if o.Delivery != nil {
		o.Delivery(step, msg)
	}
}

func (o ObserverFuncs) OnFault(step int, id int) {
	if o.Fault != nil {
		o.Fault(step, id)
	}
}

func (o ObserverFuncs) OnAnalysisSnapshot(step int, report analysis.Report) {
	if o.Snapshot != nil {
		o.Snapshot(step, report)
	}
}
