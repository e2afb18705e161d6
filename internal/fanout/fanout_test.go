package fanout_test

import (
	"context"
	"testing"
	"time"

	"github.com/reoring/transitgate/internal/fanout"
)

func TestGather_ResultsBySlot(t *testing.T) {
	got := fanout.Gather(context.Background(),
		func(context.Context) int { time.Sleep(10 * time.Millisecond); return 1 },
		func(context.Context) int { return 2 },
		func(context.Context) int { time.Sleep(5 * time.Millisecond); return 3 },
	)
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGather_NoJobs(t *testing.T) {
	if got := fanout.Gather[int](context.Background()); len(got) != 0 {
		t.Fatalf("want empty result, got %v", got)
	}
}

func TestGather_SharesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := fanout.Gather(ctx,
		func(c context.Context) bool { return c.Err() != nil },
		func(c context.Context) bool { return c.Err() != nil },
	)
	for i, cancelled := range got {
		if !cancelled {
			t.Fatalf("job %d did not see the cancelled context", i)
		}
	}
}
