package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
)

// DensityUnit is the unit of JFIF density fields.
type DensityUnit uint8

const (
	DensityNoUnits DensityUnit = iota
	DensityPerInch
	DensityPerCm
)

var (
	app0Marker = []byte{0xFF, 0xE0}
	jfifIdent  = []byte{0x4A, 0x46, 0x49, 0x46, 0x00}
)

// EnsureJFIFAPP0 inserts JFIF APP0 marker segment if it is missing. Standard
// encoder does not write one, so resolution of produced JPEG is unknown
// without it.
func EnsureJFIFAPP0(jpegData []byte, unit DensityUnit, xdensity, ydensity uint16) ([]byte, bool, error) {
	if len(jpegData) < 4 {
		return nil, false, errors.New("jpeg too small")
	}
	if jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return nil, false, errors.New("not a jpeg")
	}
	if bytes.Equal(jpegData[2:4], app0Marker) {
		return jpegData, false, nil
	}

	buf := new(bytes.Buffer)
	buf.Write(jpegData[:2])
	buf.Write(app0Marker)
	_ = binary.Write(buf, binary.BigEndian, uint16(0x10)) // length
	buf.Write(jfifIdent)
	buf.Write([]byte{0x01, 0x02}) // version
	_ = binary.Write(buf, binary.BigEndian, uint8(unit))
	_ = binary.Write(buf, binary.BigEndian, xdensity)
	_ = binary.Write(buf, binary.BigEndian, ydensity)
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // no thumbnail
	buf.Write(jpegData[2:])
	return buf.Bytes(), true, nil
}

func EncodeJPEGWithDPI(img image.Image, quality int, dpi uint16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), DensityPerInch, dpi, dpi)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// JFIFDensity reads resolution from JFIF APP0 segment following SOI marker.
// Density without units only defines aspect ratio and is not reported.
func JFIFDensity(jpegData []byte) (xdpi, ydpi float64, ok bool) {
	// SOI, APP0, length, identifier, version, units, x, y
	if len(jpegData) < 18 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return 0, 0, false
	}
	if !bytes.Equal(jpegData[2:4], app0Marker) || !bytes.Equal(jpegData[6:11], jfifIdent) {
		return 0, 0, false
	}
	unit := DensityUnit(jpegData[13])
	x := float64(binary.BigEndian.Uint16(jpegData[14:16]))
	y := float64(binary.BigEndian.Uint16(jpegData[16:18]))
	if x == 0 || y == 0 {
		return 0, 0, false
	}
	switch unit {
	case DensityPerInch:
		return x, y, true
	case DensityPerCm:
		return x * 2.54, y * 2.54, true
	}
	return 0, 0, false
}
