package system

import (
	"testing"

	"github.com/milk9111/locomotion/component"
)

func TestInputLatchEdges(t *testing.T) {
	steps := []struct {
		moveX float64
		held  bool
		want  component.Input
	}{
		{0, false, component.Input{}},
		{1, true, component.Input{MoveX: 1, Jump: true, JumpPressed: true}},
		{1, true, component.Input{MoveX: 1, Jump: true}},
		{-3, false, component.Input{MoveX: -1, JumpReleased: true}},
		{0.25, false, component.Input{MoveX: 0.25}},
		{0, true, component.Input{Jump: true, JumpPressed: true}},
	}

	var latch InputLatch
	for i, s := range steps {
		if got := latch.Next(s.moveX, s.held); got != s.want {
			t.Fatalf("step %d: expected %+v, got %+v", i, s.want, got)
		}
	}
}
