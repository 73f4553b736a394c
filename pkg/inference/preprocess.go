package inference

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" //registers the webp decoder for image.Decode
)

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// DecodeImage decodes an encoded image (png, jpeg, gif, webp, bmp, tiff).
// EXIF orientation is applied so phone photos reach the network upright.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, nil
}

// Preprocess resizes img to size x size with a Lanczos filter, scales every
// channel to [0, 1] and lays the pixels out as a 1 x 3 x size x size (NCHW) tensor.
// Alpha is dropped, grayscale and paletted images are expanded to RGB.
func Preprocess(img image.Image, size int) Tensor {
	plane := size * size
	data := make([]float32, 3*plane)
	tensor := Tensor{Shape: []int{1, 3, size, size}, Data: data}

	resized := imaging.Resize(img, size, size, imaging.Lanczos)         //always *image.NRGBA with origin (0,0)
	if resized.Bounds().Dx() != size || resized.Bounds().Dy() != size { //empty source image
		return tensor
	}

	for y := 0; y < size; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < size; x++ {
			px := row[x*4 : x*4+3]
			offset := y*size + x
			data[offset] = float32(px[0]) / 255
			data[plane+offset] = float32(px[1]) / 255
			data[2*plane+offset] = float32(px[2]) / 255
		}
	}

	return tensor
}
