package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

var ErrClosed = errors.New("bus: queue closed")

type request struct {
	ctx   context.Context
	addr  uint8
	data  []byte
	reply chan error
}

// Queue hands transactions to a single worker goroutine that owns the
// underlying transport. Callers wait for their transaction under their own
// context, so a Device driven through a Queue suspends only at bus writes.
//
// A transaction the worker has accepted always runs to completion, even if the
// caller stops waiting; the caller then gets ctx.Err() and must treat the chip
// state as unknown.
type Queue struct {
	next is31fl3731.Transport
	reqs chan request
	done chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ is31fl3731.Transport = (*Queue)(nil)

// NewQueue starts the worker. Close must be called to stop it.
func NewQueue(next is31fl3731.Transport) *Queue {
	q := &Queue{
		next: next,
		reqs: make(chan request),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case r := <-q.reqs:
			r.reply <- q.next.Write(context.WithoutCancel(r.ctx), r.addr, r.data)
		case <-q.done:
			return
		}
	}
}

func (q *Queue) Write(ctx context.Context, addr uint8, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r := request{
		ctx:   ctx,
		addr:  addr,
		data:  append([]byte(nil), data...),
		reply: make(chan error, 1),
	}
	select {
	case q.reqs <- r:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.done:
		return ErrClosed
	}
	select {
	case err := <-r.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker after any transaction in flight.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	q.wg.Wait()
	return nil
}
