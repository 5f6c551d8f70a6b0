package session

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Tickable is anything a SessionPool can advance: *RTypeSession and
// *BagarioSession both satisfy it.
type Tickable interface {
	Tick(dt float32)
}

// task pairs a session with the dt to advance it by, per spec §4.9's
// {session, dt} task shape.
type task struct {
	session Tickable
	dt      float32
}

// SessionPool runs N worker goroutines that pop {session, dt} tasks
// under a shared queue and tick them to completion. No intra-session
// parallelism is permitted — a session's systems always run serially on
// whichever worker drew that task, since ECS storage is not internally
// synchronized (spec §5).
type SessionPool struct {
	log     *zap.Logger
	workers int

	tasks     chan task
	remaining atomic.Int64
	done      chan struct{}

	wg       sync.WaitGroup
	shutdown chan struct{}
}

// NewSessionPool starts workers goroutines immediately; they block on
// the task channel until ScheduleBatch feeds them or the pool is
// stopped.
func NewSessionPool(workers int, log *zap.Logger) *SessionPool {
	if workers <= 0 {
		workers = 6
	}
	p := &SessionPool{
		log:      log,
		workers:  workers,
		tasks:    make(chan task, workers*4),
		done:     make(chan struct{}, 1),
		shutdown: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.runWorker()
	}
	return p
}

func (p *SessionPool) runWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdown:
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			t.session.Tick(t.dt)
			if p.remaining.Add(-1) == 0 {
				select {
				case p.done <- struct{}{}:
				default:
				}
			}
		}
	}
}

// ScheduleBatch enqueues one tick task per session and arms the
// completion signal used by WaitForCompletion.
func (p *SessionPool) ScheduleBatch(sessions []Tickable, dt float32) {
	if len(sessions) == 0 {
		return
	}
	p.remaining.Store(int64(len(sessions)))
	for _, s := range sessions {
		p.tasks <- task{session: s, dt: dt}
	}
}

// WaitForCompletion blocks until every task scheduled by the most recent
// ScheduleBatch has finished (spec §4.9: "the last worker signals the
// main thread").
func (p *SessionPool) WaitForCompletion() {
	if p.remaining.Load() <= 0 {
		return
	}
	<-p.done
}

// Shutdown stops accepting work and joins every worker goroutine.
func (p *SessionPool) Shutdown() {
	close(p.shutdown)
	p.wg.Wait()
	if p.log != nil {
		p.log.Info("session pool shut down", zap.Int("workers", p.workers))
	}
}
