package gateway

// WorkerPool runs persistence work dispatched from connection read
// loops so a storage stall never blocks frame handling for other
// connections. Results travel back to the originating connection
// through its send queue, not through the pool.
type WorkerPool struct {
	jobs chan func()
}

func NewWorkerPool(workers, queue int) *WorkerPool {
	p := &WorkerPool{jobs: make(chan func(), queue)}
	for i := 0; i < workers; i++ {
		go func() {
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Submit enqueues without blocking; false means the pool is saturated
// and the caller should surface a transient failure.
func (p *WorkerPool) Submit(job func()) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

func (p *WorkerPool) Close() { close(p.jobs) }
