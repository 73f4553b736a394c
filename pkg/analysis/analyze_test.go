package analysis

import (
	"errors"
	"image"
	"testing"

	"github.com/chenBenjamin97/distraction-detector/pkg/severity"
)

type sliceSource struct {
	frames []Frame
	pos    int
	err    error
}

func newSliceSource(n int) *sliceSource {
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{Index: i * 30, Timestamp: float64(i), Image: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	}
	return &sliceSource{frames: frames}
}

func (s *sliceSource) Scan() bool {
	if s.pos >= len(s.frames) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Frame() Frame { return s.frames[s.pos-1] }
func (s *sliceSource) Err() error   { return s.err }

// scriptedClassifier returns labels in call order
type scriptedClassifier struct {
	labels []string
	calls  int
	err    error
}

func (c *scriptedClassifier) Classify(image.Image) (severity.Result, error) {
	if c.err != nil {
		return severity.Result{}, c.err
	}
	label := c.labels[c.calls]
	c.calls++
	return severity.Assess(label, 0.9), nil
}

func frameNumbers(detections []Detection) []int {
	out := make([]int, len(detections))
	for i, d := range detections {
		out[i] = d.FrameNumber
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAnalyzeOrdersDistractedBeforeSafe(t *testing.T) {
	classifier := &scriptedClassifier{labels: []string{
		"drinking", "safe_driving", "texting_left", "safe_driving", "reaching_behind",
	}}

	summary, err := Analyze(newSliceSource(5), classifier, severity.Low)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if summary.TotalFramesAnalyzed != 5 || summary.DistractedFrames != 3 || summary.SafeFrames != 2 {
		t.Fatalf("counts = %+v", summary)
	}
	if summary.DistractionPercentage != 60 {
		t.Fatalf("percentage = %v, want 60", summary.DistractionPercentage)
	}

	want := []int{0, 60, 120, 30, 90}
	if got := frameNumbers(summary.Detections); !equalInts(got, want) {
		t.Fatalf("detection order = %v, want %v", got, want)
	}

	safe := summary.Detections[3]
	if safe.Class != severity.SafeLabel || safe.Severity != severity.Low {
		t.Fatalf("safe detection = %+v", safe)
	}
	if summary.DurationAnalyzed != 4 {
		t.Fatalf("duration = %v, want 4", summary.DurationAnalyzed)
	}
}

func TestAnalyzeThresholdFiltersOnlyDistractedFrames(t *testing.T) {
	classifier := &scriptedClassifier{labels: []string{
		"drinking", "safe_driving", "texting_left", "talking_passenger", "operating_radio",
	}}

	summary, err := Analyze(newSliceSource(5), classifier, severity.High)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	//drinking, talking_passenger and operating_radio are below High: total only
	if summary.TotalFramesAnalyzed != 5 {
		t.Fatalf("total = %d, want 5", summary.TotalFramesAnalyzed)
	}
	if summary.DistractedFrames != 1 || summary.SafeFrames != 1 {
		t.Fatalf("distracted/safe = %d/%d, want 1/1", summary.DistractedFrames, summary.SafeFrames)
	}
	if summary.DistractionPercentage != 20 {
		t.Fatalf("percentage = %v, want 20", summary.DistractionPercentage)
	}
	if got := frameNumbers(summary.Detections); !equalInts(got, []int{60, 30}) {
		t.Fatalf("detections = %v, want [60 30]", got)
	}
	if summary.SeverityThreshold != severity.High {
		t.Fatalf("threshold = %s", summary.SeverityThreshold)
	}
}

func TestAnalyzeMediumThreshold(t *testing.T) {
	classifier := &scriptedClassifier{labels: []string{"talking_passenger", "drinking", "hair_makeup"}}

	summary, err := Analyze(newSliceSource(3), classifier, severity.Medium)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if summary.DistractedFrames != 2 || summary.SafeFrames != 0 || summary.TotalFramesAnalyzed != 3 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.DistractionPercentage != 66.67 {
		t.Fatalf("percentage = %v, want 66.67", summary.DistractionPercentage)
	}
}

func TestAnalyzeNoFrames(t *testing.T) {
	_, err := Analyze(newSliceSource(0), &scriptedClassifier{}, severity.Low)
	if !errors.Is(err, ErrNoFrames) {
		t.Fatalf("err = %v, want ErrNoFrames", err)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	boom := errors.New("inference exploded")
	if _, err := Analyze(newSliceSource(2), &scriptedClassifier{err: boom}, severity.Low); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped classifier error", err)
	}

	src := newSliceSource(1)
	src.err = errors.New("decoder died")
	if _, err := Analyze(src, &scriptedClassifier{labels: []string{"safe_driving"}}, severity.Low); err == nil {
		t.Fatalf("source error must be reported")
	}

	if _, err := Analyze(newSliceSource(1), &scriptedClassifier{}, severity.Level("Extreme")); err == nil {
		t.Fatalf("invalid threshold must fail")
	}
}

func TestAnalyzeWithSampler(t *testing.T) {
	labels := make([]string, 10)
	for i := range labels {
		labels[i] = "safe_driving"
	}
	labels[4] = "texting_right"

	summary, err := Analyze(NewSampler(&fakeReader{fps: 30, frames: 300}, 1), &scriptedClassifier{labels: labels}, severity.Low)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	first := summary.Detections[0]
	if first.FrameNumber != 120 || first.Timestamp != 4 || first.TimestampFormatted != "00:04" {
		t.Fatalf("first detection = %+v", first)
	}
	if summary.DistractionPercentage != 10 {
		t.Fatalf("percentage = %v, want 10", summary.DistractionPercentage)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:      "00:00",
		59.9:   "00:59",
		60:     "01:00",
		125.0:  "02:05",
		3599.5: "59:59",
		-3:     "00:00",
	}

	for in, want := range cases {
		if got := FormatTimestamp(in); got != want {
			t.Errorf("FormatTimestamp(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestDistractionPercentage(t *testing.T) {
	cases := []struct {
		distracted, total int
		want              float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
	}

	for _, c := range cases {
		if got := DistractionPercentage(c.distracted, c.total); got != c.want {
			t.Errorf("DistractionPercentage(%d, %d) = %v, want %v", c.distracted, c.total, got, c.want)
		}
	}
}

func TestAnalyzeKeepsSubSecondTimestamps(t *testing.T) {
	src := &sliceSource{frames: []Frame{
		{Index: 0, Timestamp: 0, Image: image.NewRGBA(image.Rect(0, 0, 1, 1))},
		{Index: 1, Timestamp: 1.0 / 30, Image: image.NewRGBA(image.Rect(0, 0, 1, 1))},
	}}

	summary, err := Analyze(src, &scriptedClassifier{labels: []string{"safe_driving", "drinking"}}, severity.Low)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := summary.Detections[0].Timestamp; got != 1.0/30 {
		t.Errorf("timestamp = %v, want %v", got, 1.0/30)
	}
	if summary.DurationAnalyzed != 1.0/30 {
		t.Errorf("duration = %v, want %v", summary.DurationAnalyzed, 1.0/30)
	}
}
