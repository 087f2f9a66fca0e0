package scheduler

import (
	"asyncsim/network"
	"errors"
	"testing"
)

func TestReplayScheduler(t *testing.T) {
	for i, test := range replaySchedulerTest {
		sch := NewReplay(test.run)
		var err error
		for _, links := range test.active {
			var link network.Link
			link, err = sch.Select(links, nil)
			if err != nil {
				break
			}
			if link != test.run[sch.Replayed()-1] {
				t.Errorf("Expected the recorded link in test %v. Got: %v", i, link)
			}
		}
		if !errors.Is(err, test.expectedErr) {
			t.Errorf("Expected error %v in test %v. Got: %v", test.expectedErr, i, err)
		}
	}
}

var replaySchedulerTest = []struct {
	run         []network.Link
	active      [][]network.Link
	expectedErr error
}{
	{
		run:         []network.Link{{From: 0, To: 1}, {From: 1, To: 0}},
		active:      [][]network.Link{{{From: 1, To: 0}, {From: 0, To: 1}}, {{From: 1, To: 0}}},
		expectedErr: nil,
	},
	{
		run:         []network.Link{{From: 0, To: 1}, {From: 2, To: 0}},
		active:      [][]network.Link{{{From: 0, To: 1}, {From: 1, To: 0}}, {{From: 1, To: 0}}},
		expectedErr: ReplayDivergedError,
	},
	{
		run:         []network.Link{{From: 0, To: 1}},
		active:      [][]network.Link{{{From: 0, To: 1}}, {{From: 1, To: 0}}},
		expectedErr: ReplayExhaustedError,
	},
	{
		run:         []network.Link{{From: 0, To: 1}},
		active:      [][]network.Link{{}},
		expectedErr: NoActiveLinksError,
	},
}
