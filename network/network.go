package network

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var (
	InvalidAddressError = errors.New("network: Process id out of range")
	EmptyLinkError      = errors.New("network: No pending message on link")
)

// FIFO queue of the undelivered messages on a single link
type queue struct {
	msgs []Message
	head int
}

func (q *queue) len() int {
	return len(q.msgs) - q.head
}

func (q *queue) push(m Message) {
	q.msgs = append(q.msgs, m)
}

func (q *queue) pop() Message {
	m := q.msgs[q.head]
	q.msgs[q.head] = Message{}
	q.head++
	// Compact the backing slice once the consumed prefix dominates it
	if q.head > 32 && q.head*2 >= len(q.msgs) {
		q.msgs = append([]Message(nil), q.msgs[q.head:]...)
		q.head = 0
	}
	return m
}

// The Network holds the process membership, the aliveness of the processes and the link ledger.
//
// Messages are kept in one FIFO queue per (sender, receiver) link.
// The set of active links, i.e. links with a pending message and an alive receiver, is maintained incrementally.
// It is stored as a slice together with an index map so that links can be added and removed in constant time.
// The order of the slice only depends on the history of enqueue, dequeue and crash operations, which keeps seeded runs reproducible.
//
// The Network is not safe for concurrent use.
type Network struct {
	processes []Process

	queues map[Link]*queue

	active      []Link
	activeIndex map[Link]int

	nextId    uint64
	created   int
	delivered int
}

// Create a new network with n alive processes with ids 0..n-1
func New(n int) *Network {
	processes := make([]Process, n)
	for id := range processes {
		processes[id] = Process{ID: id, Alive: true}
	}
	return &Network{
		processes:   processes,
		queues:      make(map[Link]*queue),
		active:      make([]Link, 0),
		activeIndex: make(map[Link]int),
	}
}

// The number of processes in the network
func (n *Network) N() int {
	return len(n.processes)
}

func (n *Network) validId(id int) bool {
	return id >= 0 && id < len(n.processes)
}

// Return the process with the provided id.
//
// The returned pointer refers to the process stored in the network.
func (n *Network) Process(id int) (*Process, error) {
	if !n.validId(id) {
		return nil, fmt.Errorf("%w: %v", InvalidAddressError, id)
	}
	return &n.processes[id], nil
}

// Returns true if the process with the provided id exists and is alive
func (n *Network) Alive(id int) bool {
	return n.validId(id) && n.processes[id].Alive
}

// Return the ids of all alive processes in increasing order
func (n *Network) AliveIds() []int {
	ids := make([]int, 0, len(n.processes))
	for _, p := range n.processes {
		if p.Alive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Append a new message to the queue of the (from, to) link.
//
// Returns InvalidAddressError if from or to is out of range.
// Messages to a crashed receiver are accepted, but the link will never become active.
func (n *Network) Enqueue(from, to, sentAt int, payload any) (Message, error) {
	if !n.validId(from) || !n.validId(to) {
		return Message{}, fmt.Errorf("%w: link %v->%v in network of size %v", InvalidAddressError, from, to, len(n.processes))
	}
	msg := Message{
		ID:      n.nextId,
		From:    from,
		To:      to,
		SentAt:  sentAt,
		Payload: payload,
	}
	n.nextId++
	n.created++

	link := msg.Link()
	q, ok := n.queues[link]
	if !ok {
		q = &queue{}
		n.queues[link] = q
	}
	q.push(msg)
	if n.processes[to].Alive {
		n.activate(link)
	}
	return msg, nil
}

// Pop and return the oldest message on the link.
//
// Returns EmptyLinkError if there is no pending message on the link.
func (n *Network) DequeueEarliest(link Link) (Message, error) {
	q, ok := n.queues[link]
	if !ok || q.len() == 0 {
		return Message{}, fmt.Errorf("%w: %v", EmptyLinkError, link)
	}
	msg := q.pop()
	n.delivered++
	if q.len() == 0 {
		delete(n.queues, link)
		n.deactivate(link)
	}
	return msg, nil
}

// Return the currently active links.
//
// The returned slice is a copy and can be kept by the caller.
func (n *Network) ActiveLinks() []Link {
	out := make([]Link, len(n.active))
	copy(out, n.active)
	return out
}

// The number of active links
func (n *Network) ActiveCount() int {
	return len(n.active)
}

// Return all links with at least one pending message, including links into crashed processes.
//
// The links are sorted by sender and then receiver.
func (n *Network) PendingLinks() []Link {
	out := make([]Link, 0, len(n.queues))
	for link := range n.queues {
		out = append(out, link)
	}
	slices.SortFunc(out, compareLinks)
	return out
}

func compareLinks(a, b Link) int {
	if a.From != b.From {
		return a.From - b.From
	}
	return a.To - b.To
}

// The number of pending messages on the link
func (n *Network) QueueLen(link Link) int {
	if q, ok := n.queues[link]; ok {
		return q.len()
	}
	return 0
}

// Mark the process as crashed.
//
// The transition is irreversible. All links into the process stop being active,
// their messages stay queued forever.
// Returns false if the process had already crashed.
func (n *Network) MarkCrashed(id int) (bool, error) {
	if !n.validId(id) {
		return false, fmt.Errorf("%w: %v", InvalidAddressError, id)
	}
	if !n.processes[id].Alive {
		return false, nil
	}
	n.processes[id].Alive = false

	// Iterate over the active slice rather than the queue map to keep the removal order deterministic
	i := 0
	for i < len(n.active) {
		if n.active[i].To == id {
			n.deactivate(n.active[i])
			continue
		}
		i++
	}
	return true, nil
}

// Number of messages that are created but not delivered
func (n *Network) Pending() int {
	return n.created - n.delivered
}

// Number of messages created since the network was started
func (n *Network) Created() int {
	return n.created
}

// Number of messages delivered since the network was started
func (n *Network) Delivered() int {
	return n.delivered
}

func (n *Network) activate(link Link) {
	if _, ok := n.activeIndex[link]; ok {
		return
	}
	n.activeIndex[link] = len(n.active)
	n.active = append(n.active, link)
}

// Remove the link from the active slice using swap-and-pop
func (n *Network) deactivate(link Link) {
	index, ok := n.activeIndex[link]
	if !ok {
		return
	}
	last := n.active[len(n.active)-1]
	n.active[index] = last
	n.activeIndex[last] = index
	n.active = n.active[:len(n.active)-1]
	delete(n.activeIndex, link)
}
