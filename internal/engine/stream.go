package engine

import "github.com/brunotm/elasticsplunk/internal/model"

// Stream is a lazy, forward-only, single-pass sequence of output records.
// No store call happens before the first Next. After Next returns false the
// caller must check Err; records yielded before a mid-stream failure remain
// delivered.
type Stream struct {
	fetch   func() ([]model.Record, bool, error)
	release func() error
	buf     []model.Record
	current model.Record
	err     error
	done    bool
}

// Next advances to the next record, fetching batches from the store as
// needed. It returns false when the stream is exhausted or failed.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for len(s.buf) == 0 {
		if s.fetch == nil {
			s.done = true
			return false
		}
		batch, more, err := s.fetch()
		if err != nil {
			s.err = err
			s.done = true
			return false
		}
		if !more {
			s.fetch = nil
		}
		s.buf = batch
	}

	s.current = s.buf[0]
	s.buf = s.buf[1:]
	return true
}

// Record returns the record produced by the last successful Next.
func (s *Stream) Record() model.Record {
	return s.current
}

// Err returns the error that terminated the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// Close releases any server-side cursor held by the stream. It is safe to
// call more than once.
func (s *Stream) Close() error {
	if s.release == nil {
		return nil
	}
	fn := s.release
	s.release = nil
	return fn()
}
