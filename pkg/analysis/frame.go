// Package analysis samples frames out of a video and turns per-frame
// classifications into a distraction summary.
package analysis

import "image"

// Frame is one decoded video frame, RGB, with its position in the source.
type Frame struct {
	Index     int
	Timestamp float64 //seconds from the start of the video
	Image     image.Image
}

// FrameReader walks a video container one frame at a time, the way
// bufio.Scanner walks lines. Image is only called for frames that are kept,
// so readers may delay color conversion until then.
type FrameReader interface {
	FrameRate() float64
	Next() bool
	Image() (image.Image, error)
	Close() error
}

// FrameSource yields frames in order. It is one-shot.
type FrameSource interface {
	Scan() bool
	Frame() Frame
	Err() error
}
