package inference

import (
	"fmt"
	"image"
	"math"

	"github.com/chenBenjamin97/distraction-detector/pkg/severity"
)

// Network is a loaded model: one forward pass, tensor in, raw scores (logits) out.
// Implementations must be safe for concurrent use.
type Network interface {
	Forward(input Tensor) ([]float32, error)
	Close() error
}

// Prediction is the arg-max of the network's probability distribution.
type Prediction struct {
	Index         int
	Label         string
	Confidence    float64
	Probabilities []float64
}

// Classifier wraps a shared, read-only Network. A Classifier built with a nil
// Network stays usable but every call fails with ErrModelUnavailable.
type Classifier struct {
	net       Network
	inputSize int
}

func NewClassifier(net Network, inputSize int) *Classifier {
	return &Classifier{net: net, inputSize: inputSize}
}

// Available reports whether a network was loaded.
func (c *Classifier) Available() bool {
	return c != nil && c.net != nil
}

// InputSize is the square edge images are resized to.
func (c *Classifier) InputSize() int {
	return c.inputSize
}

// Predict runs img through the network and returns the winning class.
func (c *Classifier) Predict(img image.Image) (Prediction, error) {
	if !c.Available() {
		return Prediction{}, ErrModelUnavailable
	}

	logits, err := c.net.Forward(Preprocess(img, c.inputSize))
	if err != nil {
		return Prediction{}, fmt.Errorf("inference: forward pass failed: %w", err)
	}
	if len(logits) == 0 {
		return Prediction{}, fmt.Errorf("inference: network returned an empty output")
	}

	probs := Softmax(logits)
	idx := Argmax(probs)

	return Prediction{
		Index:         idx,
		Label:         severity.Label(idx),
		Confidence:    probs[idx],
		Probabilities: probs,
	}, nil
}

// Classify runs Predict and maps the winning class to a severity result.
func (c *Classifier) Classify(img image.Image) (severity.Result, error) {
	pred, err := c.Predict(img)
	if err != nil {
		return severity.Result{}, err
	}
	return severity.Assess(pred.Label, pred.Confidence), nil
}

// ClassifyBytes decodes an uploaded image and classifies it.
func (c *Classifier) ClassifyBytes(data []byte) (severity.Result, error) {
	if !c.Available() {
		return severity.Result{}, ErrModelUnavailable
	}

	img, err := DecodeImage(data)
	if err != nil {
		return severity.Result{}, err
	}
	return c.Classify(img)
}

// Close releases the underlying network.
func (c *Classifier) Close() error {
	if !c.Available() {
		return nil
	}
	return c.net.Close()
}

// Softmax converts logits to probabilities. The max logit is subtracted first
// so large values do not overflow.
func Softmax(logits []float32) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}

	max := float64(logits[0])
	for _, v := range logits[1:] {
		if float64(v) > max {
			max = float64(v)
		}
	}

	sum := 0.0
	for i, v := range logits {
		out[i] = math.Exp(float64(v) - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}

	return out
}

// Argmax returns the index of the largest value, the first one on ties. -1 for an empty slice.
func Argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best == -1 || v > values[best] {
			best = i
		}
	}
	return best
}
