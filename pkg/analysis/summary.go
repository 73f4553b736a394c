package analysis

import (
	"fmt"
	"math"

	"github.com/chenBenjamin97/distraction-detector/pkg/severity"
)

// Detection is a classified frame, kept in the summary.
type Detection struct {
	Timestamp          float64        `json:"timestamp"`
	TimestampFormatted string         `json:"timestamp_formatted"`
	FrameNumber        int            `json:"frame_number"`
	Class              string         `json:"class"`
	Severity           severity.Level `json:"severity"`
	Score              float64        `json:"score"`
	Confidence         float64        `json:"confidence"`
	Explanation        string         `json:"explanation"`
}

// Summary is the result of analyzing one video.
type Summary struct {
	TotalFramesAnalyzed   int            `json:"total_frames_analyzed"`
	DistractedFrames      int            `json:"distracted_frames"`
	SafeFrames            int            `json:"safe_frames"`
	DistractionPercentage float64        `json:"distraction_percentage"`
	DurationAnalyzed      float64        `json:"duration_analyzed"`
	SeverityThreshold     severity.Level `json:"severity_threshold"`
	Detections            []Detection    `json:"detections"`
}

func newDetection(frame Frame, result severity.Result) Detection {
	return Detection{
		Timestamp:          frame.Timestamp,
		TimestampFormatted: FormatTimestamp(frame.Timestamp),
		FrameNumber:        frame.Index,
		Class:              result.Class,
		Severity:           result.Severity,
		Score:              result.Score,
		Confidence:         result.Confidence,
		Explanation:        result.Explanation,
	}
}

// FormatTimestamp renders seconds as MM:SS, truncating fractions (59.9 => "00:59").
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// DistractionPercentage is distracted / total * 100 rounded to two decimals, 0 when total is 0.
func DistractionPercentage(distracted, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(distracted) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
