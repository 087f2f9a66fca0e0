package network

import "fmt"

// A record of a send event.
//
// Messages are created by the Network when they are enqueued and are never modified afterwards.
// A message is consumed exactly once, when it is dequeued for delivery.
type Message struct {
	// Unique, monotonically increasing id assigned by the network
	ID uint64
	// Id of the sending process
	From int
	// Id of the receiving process
	To int
	// The logical step at which the message was enqueued
	SentAt int
	// Protocol defined content
	Payload any
}

// The link the message travels on
func (m Message) Link() Link {
	return Link{From: m.From, To: m.To}
}

func (m Message) String() string {
	return fmt.Sprintf("{Id: %v, From: %v, To: %v, SentAt: %v}", m.ID, m.From, m.To, m.SentAt)
}

// The ordered pair (sender, receiver).
type Link struct {
	From int
	To   int
}

func (l Link) String() string {
	return fmt.Sprintf("%v->%v", l.From, l.To)
}

// A process taking part in the simulation.
type Process struct {
	ID    int
	Alive bool

	// Protocol specific state of the process.
	// Only the protocol of the process reads or writes it.
	Data any
}
