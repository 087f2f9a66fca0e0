package protocol

import (
	"asyncsim/network"
	"fmt"
	"strings"
)

const responseTag = "RESPONSE"

// Upon receiving any message, broadcast a new message to every other process.
// Initial traffic: a message to every other process.
type EchoAll struct{}

func (EchoAll) Name() string { return "echo-all" }

func (EchoAll) Init(env Env, p *network.Process) []Outgoing {
	return Broadcast(p.ID, env.N, fmt.Sprintf("INIT from %v", p.ID))
}

func (EchoAll) OnReceive(env Env, p *network.Process, msg network.Message) []Outgoing {
	return Broadcast(p.ID, env.N, fmt.Sprintf("Response from %v to msg %v", p.ID, msg.ID))
}

// Upon receiving any message, reply to its sender.
// Initial traffic: a message to every other process.
type PingPong struct{}

func (PingPong) Name() string { return "ping-pong" }

func (PingPong) Init(env Env, p *network.Process) []Outgoing {
	return Broadcast(p.ID, env.N, fmt.Sprintf("PING from %v", p.ID))
}

func (PingPong) OnReceive(_ Env, p *network.Process, msg network.Message) []Outgoing {
	return []Outgoing{{To: msg.From, Payload: fmt.Sprintf("PONG from %v", p.ID)}}
}

// Reply to the sender of a message, unless the message is itself a response.
// Each pair of processes communicates once as request and response.
// Initial traffic: a message to every other process.
type RequestResponse struct{}

func (RequestResponse) Name() string { return "request-response" }

func (RequestResponse) Init(env Env, p *network.Process) []Outgoing {
	return Broadcast(p.ID, env.N, fmt.Sprintf("REQUEST from %v", p.ID))
}

func (RequestResponse) OnReceive(_ Env, p *network.Process, msg network.Message) []Outgoing {
	if s, ok := msg.Payload.(string); ok && strings.HasPrefix(s, responseTag) {
		return nil
	}
	return []Outgoing{{To: msg.From, Payload: fmt.Sprintf("%s from %v", responseTag, p.ID)}}
}

// Always respond with exactly one message to the sender.
// Initial traffic: a message to every other process.
type RespondToSender struct{}

func (RespondToSender) Name() string { return "respond-to-sender" }

func (RespondToSender) Init(env Env, p *network.Process) []Outgoing {
	return Broadcast(p.ID, env.N, fmt.Sprintf("INIT from %v", p.ID))
}

func (RespondToSender) OnReceive(_ Env, p *network.Process, msg network.Message) []Outgoing {
	return []Outgoing{{To: msg.From, Payload: fmt.Sprintf("Reply from %v to msg %v", p.ID, msg.ID)}}
}

// Upon receiving any message, forward a new message to one other process chosen uniformly at random.
// Initial traffic: a message to one random process.
//
// Uses one random draw per message it sends.
type RandomSingle struct{}

func (RandomSingle) Name() string { return "random-single" }

func (r RandomSingle) Init(env Env, p *network.Process) []Outgoing {
	return r.forward(env, p, fmt.Sprintf("Random init from %v", p.ID))
}

func (r RandomSingle) OnReceive(env Env, p *network.Process, msg network.Message) []Outgoing {
	return r.forward(env, p, fmt.Sprintf("Random forwarding from %v (origin: %v)", p.ID, msg.From))
}

func (RandomSingle) forward(env Env, p *network.Process, payload string) []Outgoing {
	if env.N < 2 {
		return nil
	}
	// Draw among the n-1 peers and skip over self
	to := env.Rand.Intn(env.N - 1)
	if to >= p.ID {
		to++
	}
	return []Outgoing{{To: to, Payload: payload}}
}

// A committee-to-all network.
//
// The committee consists of the processes with ids in [0, Size).
// Committee members broadcast to every other process upon receiving a message.
// Other processes only send to the committee members.
// Initial traffic: a message to every committee member.
type Committee struct {
	Size int
}

func NewCommittee(size int) Committee {
	return Committee{Size: size}
}

func (Committee) Name() string { return "committee" }

func (c Committee) Member(id int) bool {
	return id >= 0 && id < c.Size
}

func (c Committee) Init(_ Env, p *network.Process) []Outgoing {
	return c.toCommittee(p.ID, fmt.Sprintf("INIT from %v to committee", p.ID))
}

func (c Committee) OnReceive(env Env, p *network.Process, _ network.Message) []Outgoing {
	if c.Member(p.ID) {
		return Broadcast(p.ID, env.N, fmt.Sprintf("Committee broadcast from %v", p.ID))
	}
	return c.toCommittee(p.ID, fmt.Sprintf("User report from %v to committee", p.ID))
}

func (c Committee) toCommittee(self int, payload string) []Outgoing {
	out := make([]Outgoing, 0, c.Size)
	for to := 0; to < c.Size; to++ {
		if to != self {
			out = append(out, Outgoing{To: to, Payload: payload})
		}
	}
	return out
}
