package scheduler

import (
	"asyncsim/network"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestRandomSchedulerEmpty(t *testing.T) {
	src := &countingSource{src: rand.NewSource(1)}
	rng := rand.New(src)
	_, err := NewRandom().Select([]network.Link{}, rng)
	if !errors.Is(err, NoActiveLinksError) {
		t.Errorf("Expected NoActiveLinksError. Got: %v", err)
	}
	if src.draws != 0 {
		t.Errorf("Expected no random draws on an empty link set. Got: %v", src.draws)
	}
}

func TestRandomSchedulerOneDrawPerSelection(t *testing.T) {
	src := &countingSource{src: rand.NewSource(1)}
	rng := rand.New(src)
	sch := NewRandom()
	links := []network.Link{{From: 0, To: 1}, {From: 1, To: 0}, {From: 2, To: 0}}
	for i := 0; i < 10; i++ {
		before := src.draws
		if _, err := sch.Select(links, rng); err != nil {
			t.Fatalf("Did not expect an error. Got: %v", err)
		}
		if src.draws-before != 1 {
			t.Errorf("Expected exactly one draw per selection. Got: %v", src.draws-before)
		}
	}
}

func TestRandomSchedulerUniform(t *testing.T) {
	for _, k := range []int{2, 5, 17} {
		links := make([]network.Link, k)
		for i := range links {
			links[i] = network.Link{From: i, To: (i + 1) % k}
		}
		rng := rand.New(rand.NewSource(int64(k)))
		sch := NewRandom()

		trials := 100000
		counts := make(map[network.Link]int)
		for i := 0; i < trials; i++ {
			link, err := sch.Select(links, rng)
			if err != nil {
				t.Fatalf("Did not expect an error. Got: %v", err)
			}
			counts[link]++
		}
		expected := 1 / float64(k)
		for _, link := range links {
			freq := float64(counts[link]) / float64(trials)
			if math.Abs(freq-expected) > 0.01 {
				t.Errorf("Expected link %v to be selected with frequency close to %.3f. Got: %.3f", link, expected, freq)
			}
		}
	}
}

func TestRandomSchedulerDeterministic(t *testing.T) {
	links := []network.Link{{From: 0, To: 1}, {From: 1, To: 0}, {From: 2, To: 0}, {From: 0, To: 2}}
	run := func() []network.Link {
		rng := rand.New(rand.NewSource(42))
		sch := NewRandom()
		out := []network.Link{}
		for i := 0; i < 20; i++ {
			link, _ := sch.Select(links, rng)
			out = append(out, link)
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical selections for the same seed. Got %v and %v at %v", a[i], b[i], i)
		}
	}
}

// A rand.Source counting the number of values drawn from it
type countingSource struct {
	src   rand.Source
	draws int
}

func (cs *countingSource) Int63() int64 {
	cs.draws++
	return cs.src.Int63()
}

func (cs *countingSource) Seed(seed int64) {
	cs.src.Seed(seed)
}
