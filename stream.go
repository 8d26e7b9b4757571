// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package aokv

import (
	"context"
	"io"
	"sync"
)

// Stream is the pull-based byte-chunk sink a Writer appends to (spec §5
// "Streaming output"). A single producer (the Writer) pushes chunks as it
// builds blocks; a single consumer pulls them at its own pace. The queue
// is unbounded, so the producer never blocks on the consumer — this
// mirrors spec §5's explicit "no backpressure on the write path" choice,
// since a slow consumer (e.g. a stalled HTTP upload) must not stall
// in-process writers holding a lock.
type Stream struct {
	mu   sync.Mutex
	wake chan struct{}

	queue        [][]byte
	producerErr  error
	producerDone bool
	consumerDone bool
}

func newStream() *Stream {
	return &Stream{wake: make(chan struct{}, 1)}
}

// push enqueues a chunk for the consumer. It is a no-op once the
// consumer has gone away (CloseConsumer), so a producer never needs to
// check ErrSinkClosed unless it wants to.
func (s *Stream) push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	s.mu.Lock()
	if s.consumerDone {
		s.mu.Unlock()
		return
	}

	s.queue = append(s.queue, chunk)
	s.mu.Unlock()
	s.notify()
}

// closeProducer marks the stream finished; err is returned by the final
// Pull call instead of io.EOF when non-nil.
func (s *Stream) closeProducer(err error) {
	s.mu.Lock()
	s.producerDone = true
	s.producerErr = err
	s.mu.Unlock()
	s.notify()
}

// CloseConsumer lets a consumer walk away before the stream ends (spec
// §5: "dropping the consumer early is legal"). Queued chunks are
// discarded and future pushes are silently dropped.
func (s *Stream) CloseConsumer() {
	s.mu.Lock()
	s.consumerDone = true
	s.queue = nil
	s.mu.Unlock()
}

func (s *Stream) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pull returns the next queued chunk, blocking until one is available,
// the producer finishes, or ctx is done. It returns io.EOF once the
// producer has finished and the queue is drained.
func (s *Stream) Pull(ctx context.Context) ([]byte, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			chunk := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			return chunk, nil
		}

		if s.producerDone {
			err := s.producerErr
			s.mu.Unlock()

			if err != nil {
				return nil, err
			}

			return nil, io.EOF
		}

		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.wake:
		}
	}
}
