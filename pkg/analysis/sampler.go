package analysis

import (
	"fmt"
	"math"
)

// Sampler keeps every interval-th frame of a FrameReader, where
// interval = max(1, floor(nativeRate / targetRate)). Kept frames are the
// indices 0, interval, 2*interval, ... and are stamped with index / nativeRate.
type Sampler struct {
	reader   FrameReader
	interval int
	rate     float64 //divisor used for timestamps

	next  int
	frame Frame
	err   error
}

// NewSampler wraps reader. A nil reader is an empty video: Scan returns false
// right away. A non-positive targetRate falls back to one frame per second.
func NewSampler(reader FrameReader, targetRate float64) *Sampler {
	if targetRate <= 0 {
		targetRate = 1
	}

	s := &Sampler{reader: reader, interval: 1, rate: targetRate}
	if reader == nil {
		return s
	}

	if native := reader.FrameRate(); native > 0 && !math.IsInf(native, 0) && !math.IsNaN(native) {
		s.rate = native
		s.interval = SampleInterval(native, targetRate)
	}

	return s
}

// MaxInterval caps SampleInterval so tiny target rates keep only the first frame.
const MaxInterval = math.MaxInt32

// SampleInterval returns how many source frames separate two sampled frames.
func SampleInterval(nativeRate, targetRate float64) int {
	if nativeRate <= 0 || targetRate <= 0 {
		return 1
	}

	q := math.Floor(nativeRate / targetRate)
	switch {
	case math.IsNaN(q) || q < 1:
		return 1
	case q >= MaxInterval: //also catches +Inf, the int conversion would overflow
		return MaxInterval
	}
	return int(q)
}

// Interval is the distance, in source frames, between two kept frames.
func (s *Sampler) Interval() int {
	return s.interval
}

// Scan advances to the next kept frame. It returns false at the end of the
// stream or on the first conversion error, which Err then reports.
func (s *Sampler) Scan() bool {
	if s.reader == nil || s.err != nil {
		return false
	}

	for s.reader.Next() {
		index := s.next
		s.next++

		if index%s.interval != 0 {
			continue
		}

		img, err := s.reader.Image()
		if err != nil {
			s.err = fmt.Errorf("analysis: could not convert frame %d: %w", index, err)
			return false
		}

		s.frame = Frame{
			Index:     index,
			Timestamp: float64(index) / s.rate,
			Image:     img,
		}
		return true
	}

	return false
}

// Frame returns the frame produced by the last successful Scan.
func (s *Sampler) Frame() Frame {
	return s.frame
}

func (s *Sampler) Err() error {
	return s.err
}
