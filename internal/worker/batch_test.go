package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMap_PreservesOrder(t *testing.T) {
	polities := []string{"秦", "魏", "韩", "赵", "楚", "燕", "齐"}
	items := []int{0, 1, 2, 3, 4, 5, 6}

	got, err := Map(context.Background(), 3, items, func(i int) string {
		// Earlier items finish last
		time.Sleep(time.Duration(len(items)-i) * time.Millisecond)
		return polities[i] + "国"
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	want := []string{"秦国", "魏国", "韩国", "赵国", "楚国", "燕国", "齐国"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_Empty(t *testing.T) {
	got, err := Map(context.Background(), 2, nil, func(int) int { return 0 })
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no values, got %v", got)
	}
}

func TestMap_CallsEachItemOnce(t *testing.T) {
	var calls int32
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	got, err := Map(context.Background(), 8, items, func(n int) int {
		atomic.AddInt32(&calls, 1)
		return n * 2
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if calls != 100 {
		t.Errorf("Expected 100 calls, got %d", calls)
	}
	for i, v := range got {
		if v != i*2 {
			t.Fatalf("value %d: expected %d, got %d", i, i*2, v)
		}
	}
}

func TestMap_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Map(ctx, 2, []int{1, 2, 3}, func(n int) int { return n })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
