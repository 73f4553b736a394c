package video

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/chenBenjamin97/distraction-detector/pkg/inference"
	"gocv.io/x/gocv"
)

// Network is a classifier network loaded through OpenCV's dnn module (ONNX,
// TensorFlow, Caffe...). It implements inference.Network.
// dnn.Net keeps per-call state (input blob, layer outputs), so forward passes are serialized.
type Network struct {
	mu  sync.Mutex
	net gocv.Net
}

// LoadNetwork reads the model at modelPath once. backend and target are OpenCV names
// ("default", "opencv", "cuda" / "cpu", "fp16", "cuda"), unknown names fall back to the defaults.
func LoadNetwork(modelPath, backend, target string) (*Network, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("LoadNetwork: Model not found at '%s', got '%v'", modelPath, err)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("LoadNetwork: Could not load model '%s'", modelPath)
	}

	if err := net.SetPreferableBackend(gocv.ParseNetBackend(backend)); err != nil {
		net.Close()
		return nil, fmt.Errorf("LoadNetwork: Could not set backend '%s', got '%v'", backend, err)
	}
	if err := net.SetPreferableTarget(gocv.ParseNetTarget(target)); err != nil {
		net.Close()
		return nil, fmt.Errorf("LoadNetwork: Could not set target '%s', got '%v'", target, err)
	}

	return &Network{net: net}, nil
}

// Forward runs one pass without any training state and returns the raw output vector.
func (n *Network) Forward(input inference.Tensor) ([]float32, error) {
	if len(input.Data) == 0 {
		return nil, errors.New("Network: empty input tensor")
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(&input.Data[0])), len(input.Data)*4) //native byte order, as OpenCV expects
	blob, err := gocv.NewMatWithSizesFromBytes(input.Shape, gocv.MatTypeCV32F, raw)
	if err != nil {
		return nil, fmt.Errorf("Network: Could not build input blob, got '%v'", err)
	}
	defer blob.Close()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.net.SetInput(blob, "")
	prob := n.net.Forward("")
	defer prob.Close()
	runtime.KeepAlive(input.Data)

	if prob.Empty() {
		return nil, errors.New("Network: forward pass returned nothing")
	}

	scores, err := prob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("Network: Could not read output, got '%v'", err)
	}

	out := make([]float32, len(scores)) //scores points into prob's memory, freed on return
	copy(out, scores)
	return out, nil
}

func (n *Network) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.net.Close()
}
