package qmag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func await(t *testing.T, ch <-chan Outcome) Outcome {
	select {
	case <-time.After(testTimeout):
		t.Fatal("Test timed out waiting for job outcome")
		return Outcome{}
	case out := <-ch:
		return out
	}
}

func TestPool(t *testing.T) {
	Convey("Given a pool", t, func() {
		config := NewConfig()
		config.Workers = 2
		config.SchedulingTimeout = time.Second

		q := NewQ(context.Background(), config)

		Reset(func() {
			q.Close()
		})

		Convey("A scheduled job delivers its value", func() {
			out := await(t, q.Schedule("simple", func(ctx context.Context) (any, error) {
				return "success", nil
			}))
			So(out.Error, ShouldBeNil)
			So(out.Value, ShouldEqual, "success")
		})

		Convey("A failing job delivers its error", func() {
			out := await(t, q.Schedule("failing", func(ctx context.Context) (any, error) {
				return nil, ErrDimensionMismatch
			}))
			So(errors.Is(out.Error, ErrDimensionMismatch), ShouldBeTrue)
		})

		Convey("A panicking job is turned into an error", func() {
			out := await(t, q.Schedule("panicking", func(ctx context.Context) (any, error) {
				panic("boom")
			}))
			So(out.Error, ShouldNotBeNil)
			So(out.Error.Error(), ShouldContainSubstring, "panicked")
		})

		Convey("Many jobs all complete and are counted", func() {
			var ran atomic.Int64
			channels := make([]<-chan Outcome, 20)
			for i := range channels {
				channels[i] = q.Schedule(fmt.Sprintf("load-%d", i), func(ctx context.Context) (any, error) {
					ran.Add(1)
					return i, nil
				})
			}

			for i, ch := range channels {
				So(await(t, ch).Value, ShouldEqual, i)
			}
			So(ran.Load(), ShouldEqual, 20)

			metrics := q.Metrics().Export()
			So(metrics["job_count"], ShouldEqual, int64(20))
			So(metrics["worker_count"], ShouldEqual, 2)
			So(q.Metrics().SuccessRate(), ShouldEqual, 1.0)
		})

		Convey("Jobs scheduled after Close fail immediately", func() {
			q.Close()
			out := await(t, q.Schedule("late", func(ctx context.Context) (any, error) {
				return "never", nil
			}))
			So(errors.Is(out.Error, ErrPoolClosed), ShouldBeTrue)
		})
	})
}

func TestPoolCloseWhileScheduling(t *testing.T) {
	Convey("Given pools closed while jobs are being scheduled", t, func() {
		config := NewConfig()
		config.Workers = 2
		config.SchedulingTimeout = time.Second

		Convey("Every scheduled job delivers an outcome", func() {
			for round := 0; round < 300; round++ {
				q := NewQ(context.Background(), config)

				channels := make(chan (<-chan Outcome), 8)
				var wg sync.WaitGroup
				for i := 0; i < cap(channels); i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						channels <- q.Schedule(fmt.Sprintf("round-%d-%d", round, i), func(ctx context.Context) (any, error) {
							return i, nil
						})
					}()
				}

				q.Close()
				wg.Wait()
				close(channels)

				for ch := range channels {
					select {
					case <-time.After(testTimeout):
						t.Fatalf("round %d: job outcome never delivered", round)
					case out := <-ch:
						if out.Error != nil {
							So(errors.Is(out.Error, ErrPoolClosed), ShouldBeTrue)
						}
					}
				}
			}
		})
	})
}

func TestEvaluateFiles(t *testing.T) {
	Convey("Given eigenset files of mixed quality", t, func() {
		dir := t.TempDir()

		good := filepath.Join(dir, "good.eigenset")
		So(SaveEigenset(good, NewEigenset(4,
			Eigenpair{Bx: 0.1, Eigenvector: []float64{1, 0, 0, 0}},
			Eigenpair{Bx: 0.2, Eigenvector: []float64{0, 0, 0, 1}},
		), false), ShouldBeNil)

		badSize := filepath.Join(dir, "bad-size.eigenset")
		So(os.WriteFile(badSize, []byte(
			"eigenvectorSize: 5\nnumberEigenvectors: 1\neigenpairs:\n  - Bx: 0\n    Bz: 0\n    Eigenvector: [1, 0, 0, 0, 0]\n",
		), 0o644), ShouldBeNil)

		partial := filepath.Join(dir, "partial.eigenset")
		So(SaveEigenset(partial, NewEigenset(2,
			Eigenpair{Eigenvector: []float64{0, 1}},
			Eigenpair{Eigenvector: []float64{1, 0, 0}},
		), false), ShouldBeNil)

		missing := filepath.Join(dir, "missing.eigenset")

		config := NewConfig()
		config.Workers = 2
		q := NewQ(context.Background(), config)

		Reset(func() {
			q.Close()
		})

		paths := []string{good, badSize, missing, partial}
		results := q.EvaluateFiles(context.Background(), NewEvaluator(config), paths)

		Convey("Results line up with the inputs", func() {
			So(len(results), ShouldEqual, len(paths))
			for i, fr := range results {
				So(fr.Path, ShouldEqual, paths[i])
			}
		})

		Convey("Good files are evaluated", func() {
			So(results[0].Err, ShouldBeNil)
			So(results[0].Result.Values(), ShouldResemble, []float64{1, -1})
		})

		Convey("Bad files fail only their own entry", func() {
			So(errors.Is(results[1].Err, ErrInvalidArgument), ShouldBeTrue)
			So(errors.Is(results[2].Err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("Per-eigenpair failures stay inside the result", func() {
			So(results[3].Err, ShouldBeNil)
			So(results[3].Result.Values()[0], ShouldEqual, -1.0)
			So(errors.Is(results[3].Result.Err(), ErrDimensionMismatch), ShouldBeTrue)
		})
	})

	Convey("Given a context cancelled while jobs wait for a busy worker", t, func() {
		config := NewConfig()
		config.Workers = 1
		config.SchedulingTimeout = testTimeout
		q := NewQ(context.Background(), config)

		Reset(func() {
			q.Close()
		})

		path := filepath.Join(t.TempDir(), "queued.eigenset")
		So(SaveEigenset(path, NewEigenset(2, Eigenpair{Eigenvector: []float64{1, 0}}), false), ShouldBeNil)

		started := make(chan struct{})
		release := make(chan struct{})
		blocker := q.Schedule("blocker", func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return nil, nil
		})
		<-started

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan []FileResult, 1)
		go func() {
			done <- q.EvaluateFiles(ctx, NewEvaluator(config), []string{path, path})
		}()

		cancel()
		close(release)
		await(t, blocker)

		select {
		case <-time.After(testTimeout):
			t.Fatal("Test timed out waiting for the batch")
		case results := <-done:
			So(errors.Is(results[0].Err, context.Canceled), ShouldBeTrue)
			So(errors.Is(results[1].Err, context.Canceled), ShouldBeTrue)
		}
	})

	Convey("Given a cancelled context", t, func() {
		q := NewQ(context.Background(), nil)
		Reset(func() {
			q.Close()
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := q.EvaluateFiles(ctx, NewEvaluator(nil), []string{"a", "b"})
		So(errors.Is(results[0].Err, context.Canceled), ShouldBeTrue)
		So(errors.Is(results[1].Err, context.Canceled), ShouldBeTrue)
	})
}
