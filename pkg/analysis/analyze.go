package analysis

import (
	"errors"
	"fmt"
	"image"

	"github.com/chenBenjamin97/distraction-detector/pkg/severity"
)

// ErrNoFrames is returned when the source produced no frame at all.
var ErrNoFrames = errors.New("analysis: no frames could be extracted from the video")

// Classifier classifies a single RGB image.
type Classifier interface {
	Classify(img image.Image) (severity.Result, error)
}

// Analyze classifies every frame of src in order and builds the summary.
//
// Safe frames are always recorded. Distracted frames are recorded and counted
// only when their severity is at least threshold; the rest still count toward
// TotalFramesAnalyzed and nothing else. Detections list the recorded
// distracted frames first, then the safe ones, each group in frame order.
func Analyze(src FrameSource, classifier Classifier, threshold severity.Level) (Summary, error) {
	if !threshold.Valid() {
		return Summary{}, fmt.Errorf("analysis: invalid severity threshold '%s'", threshold)
	}

	summary := Summary{SeverityThreshold: threshold}
	distracted := make([]Detection, 0)
	safe := make([]Detection, 0)

	for src.Scan() {
		frame := src.Frame()

		result, err := classifier.Classify(frame.Image)
		if err != nil {
			return Summary{}, fmt.Errorf("analysis: frame %d: %w", frame.Index, err)
		}

		summary.TotalFramesAnalyzed++
		summary.DurationAnalyzed = frame.Timestamp

		if result.IsSafe() { //never filtered
			summary.SafeFrames++
			safe = append(safe, newDetection(frame, result))
			continue
		}

		if !result.Severity.AtLeast(threshold) { //below threshold - counted in total only
			continue
		}

		summary.DistractedFrames++
		distracted = append(distracted, newDetection(frame, result))
	}

	if err := src.Err(); err != nil {
		return Summary{}, err
	}

	if summary.TotalFramesAnalyzed == 0 {
		return Summary{}, ErrNoFrames
	}

	summary.DistractionPercentage = DistractionPercentage(summary.DistractedFrames, summary.TotalFramesAnalyzed)
	summary.Detections = append(distracted, safe...)

	return summary, nil
}
