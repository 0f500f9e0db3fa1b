// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging normalises uploaded profile media. Avatars and page
// backgrounds are decoded, downscaled to a maximum width, and re-encoded
// as JPEG so the stored object has a predictable format and size
// regardless of what the browser sent.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Maximum output widths per media kind.
const (
	AvatarMaxWidth     = 512
	BackgroundMaxWidth = 1920

	jpegQuality = 85
)

// ContentType is the MIME type of everything Process produces.
const ContentType = "image/jpeg"

// Processed holds one normalised image ready for upload.
type Processed struct {
	Data   []byte
	Width  int
	Height int
}

// Process decodes src (JPEG, PNG, GIF, or WebP), scales it down to at most
// maxWidth while preserving aspect ratio, and re-encodes it as JPEG.
// Images already narrower than maxWidth are not upscaled.
func Process(src []byte, maxWidth int) (*Processed, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imaging: empty %s image", format)
	}

	if width > maxWidth {
		// Scale height to keep the aspect ratio, rounding to nearest.
		scaled := (height*maxWidth + width/2) / width
		if scaled < 1 {
			scaled = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, scaled))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		width = maxWidth
		height = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	return &Processed{Data: buf.Bytes(), Width: width, Height: height}, nil
}
