package failureManager

import (
	"asyncsim/network"
	"errors"
	"testing"

	"golang.org/x/exp/slices"
)

func TestPlanned(t *testing.T) {
	for i, test := range plannedTest {
		net := network.New(4)
		fi := NewPlanned(test.plan, test.maxFaults)
		crashes := []int{}
		for step := 0; step <= test.steps; step++ {
			crashed, err := fi.Inject(step, net, nil)
			if err != nil {
				t.Fatalf("Test %v: Did not expect an error. Got: %v", i, err)
			}
			crashes = append(crashes, crashed...)
		}
		if !slices.Equal(crashes, test.expected) {
			t.Errorf("Test %v: Expected crashes %v. Got: %v", i, test.expected, crashes)
		}
	}
}

var plannedTest = []struct {
	plan      []PlannedFault
	maxFaults int
	steps     int
	expected  []int
}{
	{
		plan:      []PlannedFault{{Step: 3, Process: 1}, {Step: 1, Process: 2}},
		maxFaults: 2,
		steps:     5,
		expected:  []int{2, 1},
	},
	{
		plan:      []PlannedFault{{Step: 1, Process: 1}, {Step: 2, Process: 1}, {Step: 3, Process: 0}},
		maxFaults: 2,
		steps:     5,
		expected:  []int{1, 0},
	},
	{
		plan:      []PlannedFault{{Step: 1, Process: 1}, {Step: 2, Process: 2}, {Step: 3, Process: 0}},
		maxFaults: 1,
		steps:     5,
		expected:  []int{1},
	},
	{
		plan:      []PlannedFault{{Step: 10, Process: 1}},
		maxFaults: 1,
		steps:     5,
		expected:  []int{},
	},
}

func TestPlannedInvalidProcess(t *testing.T) {
	net := network.New(2)
	fi := NewPlanned([]PlannedFault{{Step: 0, Process: 4}}, 1)
	_, err := fi.Inject(0, net, nil)
	if !errors.Is(err, network.InvalidAddressError) {
		t.Errorf("Expected InvalidAddressError. Got: %v", err)
	}
}
