package images

import (
	"bytes"
	"encoding/binary"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// PNGDensity reads resolution from pHYs chunk, which must precede image
// data.
func PNGDensity(pngData []byte) (xdpi, ydpi float64, ok bool) {
	if !bytes.HasPrefix(pngData, pngSignature) {
		return 0, 0, false
	}
	for pos := len(pngSignature); pos+8 <= len(pngData); {
		length := int(binary.BigEndian.Uint32(pngData[pos : pos+4]))
		kind := string(pngData[pos+4 : pos+8])
		body := pos + 8
		if length < 0 || body+length > len(pngData) {
			return 0, 0, false
		}
		switch kind {
		case "pHYs":
			if length < 9 || pngData[body+8] != 1 {
				// unit is unknown, aspect ratio only
				return 0, 0, false
			}
			const inchPerMetre = 0.0254
			x := float64(binary.BigEndian.Uint32(pngData[body:body+4])) * inchPerMetre
			y := float64(binary.BigEndian.Uint32(pngData[body+4:body+8])) * inchPerMetre
			if x == 0 || y == 0 {
				return 0, 0, false
			}
			return x, y, true
		case "IDAT", "IEND":
			return 0, 0, false
		}
		pos = body + length + 4 // crc
	}
	return 0, 0, false
}
