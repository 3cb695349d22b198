package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Farwahi/Noor-e-Hadiya/internal/queue"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestEnqueueDedup(t *testing.T) {
	rdb := newClient(t)
	enq := queue.Enqueuer{R: rdb, DedupTTL: time.Minute}
	ctx := context.Background()

	task := queue.Task{Kind: queue.KindOrderRecord, Payload: []byte(`{"session":"cs_1"}`), IdempotencyKey: "cs_1"}
	require.NoError(t, enq.Enqueue(ctx, task))
	require.NoError(t, enq.Enqueue(ctx, task))

	n, err := rdb.ZCard(ctx, "queue:"+queue.KindOrderRecord).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestEnqueueRejectsBadKind(t *testing.T) {
	enq := queue.Enqueuer{R: newClient(t)}
	err := enq.Enqueue(context.Background(), queue.Task{Kind: "Not Valid!"})
	require.Error(t, err)
}

func TestWorkerProcessesTask(t *testing.T) {
	rdb := newClient(t)
	enq := queue.Enqueuer{R: rdb}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, enq.Enqueue(ctx, queue.Task{
		Kind:           queue.KindOrderRecord,
		Payload:        []byte(`{"session":"cs_2"}`),
		IdempotencyKey: "cs_2",
	}))

	done := make(chan queue.Task, 1)
	worker := queue.Worker{
		R:    rdb,
		Kind: queue.KindOrderRecord,
		Handler: func(ctx context.Context, task queue.Task) error {
			done <- task
			return nil
		},
	}
	go func() { _ = worker.Run(ctx) }()

	select {
	case task := <-done:
		require.Equal(t, "cs_2", task.IdempotencyKey)
		require.JSONEq(t, `{"session":"cs_2"}`, string(task.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("task was not processed")
	}
	cancel()
}
