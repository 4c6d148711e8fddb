package coordinator

import (
	"context"
	"sync"
)

// effectID tags a long-lived cancellable effect; one live task per tag
type effectID string

const cubeShakingID effectID = "cube-shaking"

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// registry runs cancellable effects keyed by tag
type registry struct {
	mu    sync.Mutex
	tasks map[effectID]*task
	wg    sync.WaitGroup
}

func newRegistry() *registry {
	return &registry{tasks: make(map[effectID]*task)}
}

// run cancels any task under id and starts fn in its place
// fn starts only after the replaced task has returned
func (r *registry) run(id effectID, fn func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	old := r.tasks[id]
	if old != nil {
		old.cancel()
	}
	r.tasks[id] = t
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer close(t.done)
		defer r.release(id, t)
		defer cancel()

		if old != nil {
			<-old.done
		}
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	}()
}

func (r *registry) release(id effectID, t *task) {
	r.mu.Lock()
	if r.tasks[id] == t {
		delete(r.tasks, id)
	}
	r.mu.Unlock()
}

// cancel stops the task under id, reporting whether one was live
func (r *registry) cancel(id effectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return false
	}
	t.cancel()
	delete(r.tasks, id)
	return true
}

// active reports whether a task is registered under id
func (r *registry) active(id effectID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[id]
	return ok
}

// cancelAll stops every task and waits for them to return
func (r *registry) cancelAll() {
	r.mu.Lock()
	for id, t := range r.tasks {
		t.cancel()
		delete(r.tasks, id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
