package queue_test

import (
	"context"
	"testing"

	"github.com/okian/talentrank/internal/adapters/mq/queue"
	"github.com/okian/talentrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func task(applicationID string) queue.Task {
	return queue.Task{
		Feedback: model.FeedbackRecord{ApplicationID: applicationID, Outcome: model.OutcomeHired},
		Scope:    model.Scope{RecruiterID: "r1", JobID: "j1"},
	}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a bounded queue", t, func() {
		ctx := context.Background()

		Convey("Tasks should flow through in order", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Enqueue(ctx, task("app-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, task("app-2")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			got := <-q.Dequeue(ctx)
			So(got.Feedback.ApplicationID, ShouldEqual, "app-1")
			got = <-q.Dequeue(ctx)
			So(got.Feedback.ApplicationID, ShouldEqual, "app-2")
		})

		Convey("A full queue should reject instead of blocking", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			So(q.Enqueue(ctx, task("app-1")), ShouldBeTrue)
			So(q.Enqueue(ctx, task("app-2")), ShouldBeFalse)
		})

		Convey("A closed queue should reject new tasks but drain buffered ones", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(10))
			So(q.Enqueue(ctx, task("app-1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Enqueue(ctx, task("app-2")), ShouldBeFalse)

			got, ok := <-q.Dequeue(ctx)
			So(ok, ShouldBeTrue)
			So(got.Feedback.ApplicationID, ShouldEqual, "app-1")

			_, ok = <-q.Dequeue(ctx)
			So(ok, ShouldBeFalse)

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
