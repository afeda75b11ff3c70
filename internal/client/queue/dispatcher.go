package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 3
	channelBuffer  = 64
)

// Action is one unit of session work. Actions sharing a Key run in
// submission order on the same worker.
type Action struct {
	Key  string
	Name string
	Run  func(ctx context.Context) error
}

type job struct {
	action Action
	result chan<- error
}

// Dispatcher routes actions to a fixed set of workers. Pinned keys own a
// dedicated worker; any other key is placed by consistent hashing. Actions
// of one key keep their order while different keys proceed in parallel.
type Dispatcher struct {
	workers []chan job
	pinned  map[string]int
	done    <-chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. Each of pinned gets its own
// worker, and the pool grows to at least len(pinned)+1 so unpinned keys
// never share a worker with a pinned one.
func NewDispatcher(numWorkers int, log zerolog.Logger, pinned ...string) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	lanes := make(map[string]int, len(pinned))
	for _, key := range pinned {
		if _, dup := lanes[key]; !dup {
			lanes[key] = len(lanes)
		}
	}
	if len(lanes) > 0 && numWorkers <= len(lanes) {
		numWorkers = len(lanes) + 1
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		pinned:  lanes,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.done = ctx.Done()
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Submit queues a on the worker responsible for its key. The returned
// channel receives the action's error (nil on success) exactly once.
// Submitting after the dispatcher stopped yields context.Canceled.
func (d *Dispatcher) Submit(a Action) <-chan error {
	res := make(chan error, 1)
	select {
	case <-d.done:
		res <- context.Canceled
		return res
	default:
	}
	select {
	case d.workers[d.shardIndex(a.Key)] <- job{action: a, result: res}:
	case <-d.done:
		res <- context.Canceled
	}
	return res
}

// shardIndex maps a key deterministically to a worker index. Unpinned keys
// hash onto the workers after the pinned ones.
func (d *Dispatcher) shardIndex(key string) int {
	if i, ok := d.pinned[key]; ok {
		return i
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	free := uint32(len(d.workers) - len(d.pinned))
	return len(d.pinned) + int(h.Sum32()%free)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			d.drain(ch)
			return
		case j := <-ch:
			err := j.action.Run(ctx)
			if err != nil {
				d.log.Debug().Err(err).
					Str("key", j.action.Key).
					Str("action", j.action.Name).
					Int("worker_id", id).
					Msg("session action failed")
			}
			j.result <- err
		}
	}
}

// drain fails every job still buffered so no submitter waits forever.
func (d *Dispatcher) drain(ch <-chan job) {
	for {
		select {
		case j := <-ch:
			j.result <- context.Canceled
		default:
			return
		}
	}
}
