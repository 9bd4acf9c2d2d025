package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"github.com/bbrks/go-blurhash"
)

// blurHashSize is the target size for BlurHash computation. BlurHash is a
// low-resolution placeholder, so a small thumbnail produces nearly
// identical results in a fraction of the time.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash placeholder string from poster
// image data. Uses 4x3 components, which suits portrait poster art.
func ComputeBlurHash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	thumbnail := resizeForBlurHash(img)

	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// resizeForBlurHash creates a small thumbnail via nearest-neighbor
// scaling, which is fast and sufficient for BlurHash input.
func resizeForBlurHash(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= blurHashSize && srcHeight <= blurHashSize {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = blurHashSize
		dstHeight = max((srcHeight*blurHashSize)/srcWidth, 1)
	} else {
		dstHeight = blurHashSize
		dstWidth = max((srcWidth*blurHashSize)/srcHeight, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}
	return dst
}
