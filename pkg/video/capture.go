package video

import (
	"errors"
	"fmt"
	"image"

	"github.com/chenBenjamin97/distraction-detector/pkg/analysis"
	"gocv.io/x/gocv"
)

// Capture reads a video container frame by frame with OpenCV. It implements analysis.FrameReader.
// A Capture is not safe for concurrent use; each request opens its own.
type Capture struct {
	cap   *gocv.VideoCapture
	frame gocv.Mat //last decoded frame, BGR as delivered by OpenCV
	rgba  gocv.Mat //conversion buffer, reused between frames
	fps   float64
}

// OpenCapture opens the video at given path. srcVideoPath should include file's extension ('.mp4', etc.)
func OpenCapture(srcVideoPath string) (*Capture, error) {
	cap, err := gocv.VideoCaptureFile(srcVideoPath)
	if err != nil {
		return nil, fmt.Errorf("OpenCapture: Could not open '%s', got '%v'", srcVideoPath, err)
	}

	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("OpenCapture: '%s' is not a readable video", srcVideoPath)
	}

	return &Capture{
		cap:   cap,
		frame: gocv.NewMat(),
		rgba:  gocv.NewMat(),
		fps:   cap.Get(gocv.VideoCaptureFPS),
	}, nil
}

// Open is OpenCapture typed for callers that only need an analysis.FrameReader.
func Open(srcVideoPath string) (analysis.FrameReader, error) {
	c, err := OpenCapture(srcVideoPath)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FrameRate is the container's native frames per second, 0 when unknown.
func (c *Capture) FrameRate() float64 {
	return c.fps
}

// Next decodes the next frame. It returns false at the end of the stream.
func (c *Capture) Next() bool {
	if !c.cap.Read(&c.frame) { //finished to read all video's frames
		return false
	}
	return !c.frame.Empty()
}

// Image converts the current frame from OpenCV's BGR order to an RGB image.
func (c *Capture) Image() (image.Image, error) {
	if c.frame.Empty() {
		return nil, errors.New("Capture: no frame was read")
	}

	switch c.frame.Channels() {
	case 1:
		gocv.CvtColor(c.frame, &c.rgba, gocv.ColorGrayToBGRA) //gray has no channel order, BGRA == RGBA
	case 4:
		gocv.CvtColor(c.frame, &c.rgba, gocv.ColorBGRAToRGBA)
	default:
		gocv.CvtColor(c.frame, &c.rgba, gocv.ColorBGRToRGBA)
	}

	width, height := c.rgba.Cols(), c.rgba.Rows()
	return &image.RGBA{
		Pix:    c.rgba.ToBytes(), //copy, the buffer is overwritten by the next frame
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// Close releases the decoder and the frame buffers.
func (c *Capture) Close() error {
	c.frame.Close()
	c.rgba.Close()
	return c.cap.Close()
}
