package gateway

import "skillswap/logger"

type fanoutJob struct {
	conns   []*Conn
	payload []byte
}

// Fanout delivers one payload to many connections on a fixed pool of
// workers so a broadcast to a large topic never runs on the caller's
// goroutine.
type Fanout struct {
	jobs chan fanoutJob
}

func NewFanout(workers, queue int) *Fanout {
	f := &Fanout{jobs: make(chan fanoutJob, queue)}
	for i := 0; i < workers; i++ {
		go func() {
			for job := range f.jobs {
				for _, c := range job.conns {
					if !c.Enqueue(job.payload) {
						// Slow or gone client: skip, the durable
						// store is the backstop.
						logger.Debug("fanout skipped slow client")
					}
				}
			}
		}()
	}
	return f
}

// Broadcast enqueues the delivery job without blocking: when the job
// queue itself is saturated the push is dropped, matching the
// best-effort realtime contract.
func (f *Fanout) Broadcast(conns []*Conn, payload []byte) {
	if len(conns) == 0 || len(payload) == 0 {
		return
	}
	select {
	case f.jobs <- fanoutJob{conns: conns, payload: payload}:
	default:
		logger.Warn("fanout queue full, dropping push")
	}
}

// Close stops the workers once pending jobs drain.
func (f *Fanout) Close() { close(f.jobs) }
