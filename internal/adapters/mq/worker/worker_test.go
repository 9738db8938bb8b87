package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/sourceqa/internal/adapters/mq/queue"
	worker "github.com/okian/sourceqa/internal/adapters/mq/worker"
	model "github.com/okian/sourceqa/internal/domain/model"
	logging "github.com/okian/sourceqa/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

type mockPublisher struct {
	mu        sync.Mutex
	published []string
	failFirst int
	calls     int
}

func (p *mockPublisher) Publish(ctx context.Context, e queue.Event) error { //nolint:gocritic // hugeParam: matches interface
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failFirst {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, e.ID)
	return nil
}

func (p *mockPublisher) ids() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.published...)
}

func waitDone(r *worker.Relay) bool {
	select {
	case <-r.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func sourced(id string) queue.Event {
	return queue.Event{ID: id, Kind: model.EventCandidateSourced, Name: "Ann", Owner: "AB", Rows: []int{2}}
}

func TestRelay(t *testing.T) {
	convey.Convey("Given a relay over an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		pub := &mockPublisher{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.Convey("When events are enqueued", func() {
			r := worker.NewRelay(q, pub, worker.WithName("test"))
			go r.Run(ctx)

			q.Enqueue(ctx, sourced("e1"))
			q.Enqueue(ctx, sourced("e2"))

			convey.Convey("Then they are published in order", func() {
				convey.So(func() []string {
					deadline := time.Now().Add(2 * time.Second)
					for len(pub.ids()) < 2 && time.Now().Before(deadline) {
						time.Sleep(5 * time.Millisecond)
					}
					return pub.ids()
				}(), convey.ShouldResemble, []string{"e1", "e2"})
				_ = q.Close()
				convey.So(waitDone(r), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the publisher fails transiently", func() {
			pub.failFirst = 2
			r := worker.NewRelay(q, pub, worker.WithRetries(3), worker.WithBackoff(time.Millisecond))
			go r.Run(ctx)
			q.Enqueue(ctx, sourced("e1"))
			_ = q.Close()

			convey.Convey("Then the event is retried until published", func() {
				convey.So(waitDone(r), convey.ShouldBeTrue)
				convey.So(pub.ids(), convey.ShouldResemble, []string{"e1"})
				convey.So(pub.calls, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When retries are exhausted", func() {
			pub.failFirst = 10
			r := worker.NewRelay(q, pub, worker.WithRetries(1), worker.WithBackoff(time.Millisecond))
			go r.Run(ctx)
			q.Enqueue(ctx, sourced("e1"))
			q.Enqueue(ctx, sourced("e2"))
			_ = q.Close()

			convey.Convey("Then the relay moves on and nothing is published", func() {
				convey.So(waitDone(r), convey.ShouldBeTrue)
				convey.So(pub.ids(), convey.ShouldBeEmpty)
				convey.So(pub.calls, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			r := worker.NewRelay(q, pub)
			go r.Run(ctx)
			cancel()

			convey.Convey("Then the relay stops promptly", func() {
				convey.So(waitDone(r), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of relays", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		pub := &mockPublisher{}
		pool := worker.NewPool(3, q, pub)
		ctx := context.Background()
		pool.Start(ctx)

		for _, id := range []string{"a", "b", "c", "d", "e"} {
			q.Enqueue(ctx, sourced(id))
		}

		convey.Convey("When shutting down", func() {
			err := pool.Shutdown(ctx)

			convey.Convey("Then the backlog is drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.Enqueue(ctx, sourced("late")), convey.ShouldBeFalse)
				convey.So(pub.ids(), convey.ShouldHaveLength, 5)
			})
		})
	})
}
