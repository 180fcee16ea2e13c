package tray

import (
	"bytes"
	"encoding/binary"
)

// icoHeader and icoDirEntry are pared-down views of the bits of the ICO
// format systray.SetIcon actually needs.
type icoHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoDirEntry struct {
	Width, Height    uint8
	ColorCount       uint8
	Reserved         uint8
	Planes, BitCount uint16
	BytesInRes       uint32
	ImageOffset      uint32
}

type bitmapInfoHeader struct {
	Size          uint32
	Width, Height int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// buildIcon synthesizes a minimal 16x16 32bpp ICO in memory, painted solid
// rgba. There is no frontend/icon.ico asset in this tree (the teacher's
// embedded icon was a binary file this repository never carried), so the
// tray icon is generated instead of embedded.
func buildIcon(r, g, b, a byte) []byte {
	const side = 16
	pixels := make([]byte, side*side*4)
	for i := 0; i < side*side; i++ {
		pixels[i*4+0] = b
		pixels[i*4+1] = g
		pixels[i*4+2] = r
		pixels[i*4+3] = a
	}
	// ICO stores rows bottom-up, matching BMP convention.
	flipped := make([]byte, len(pixels))
	rowSize := side * 4
	for row := 0; row < side; row++ {
		copy(flipped[row*rowSize:(row+1)*rowSize], pixels[(side-1-row)*rowSize:(side-row)*rowSize])
	}

	dib := bitmapInfoHeader{
		Size:     40,
		Width:    side,
		Height:   side * 2, // height counts the AND mask too, per ICO convention
		Planes:   1,
		BitCount: 32,
	}
	maskSize := side * (side / 8)
	if maskSize == 0 {
		maskSize = side
	}
	mask := make([]byte, maskSize)

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, icoHeader{Type: 1, Count: 1})
	imageSize := uint32(40 + len(flipped) + len(mask))
	binary.Write(&buf, binary.LittleEndian, icoDirEntry{
		Width: side, Height: side, Planes: 1, BitCount: 32,
		BytesInRes:  imageSize,
		ImageOffset: 6 + 16,
	})
	binary.Write(&buf, binary.LittleEndian, dib)
	buf.Write(flipped)
	buf.Write(mask)
	return buf.Bytes()
}

var iconData = buildIcon(0x2f, 0x6f, 0xb3, 0xff)

// GetIcon returns the tray icon data.
func GetIcon() []byte {
	return iconData
}
