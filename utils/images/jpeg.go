package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// DpiType is JFIF density units.
type DpiType uint8

const (
	DpiNoUnits DpiType = iota
	DpiPxPerInch
	DpiPxPerSm
)

var (
	soiMarker  = []byte{0xFF, 0xD8}
	app0Marker = []byte{0xFF, 0xE0}
	jfifID     = []byte{'J', 'F', 'I', 'F', 0x00}
)

func checkJPEG(data []byte) error {
	if len(data) < 4 {
		return errors.New("jpeg too small")
	}
	if !bytes.Equal(data[:2], soiMarker) {
		return errors.New("not a jpeg")
	}
	return nil
}

// jfifSegment builds APP0 segment version 1.02 without thumbnail.
func jfifSegment(dpit DpiType, xdensity, ydensity int16) []byte {
	seg := make([]byte, 0, 18)
	seg = append(seg, app0Marker...)
	seg = binary.BigEndian.AppendUint16(seg, 0x10)
	seg = append(seg, jfifID...)
	seg = append(seg, 0x01, 0x02, byte(dpit))
	seg = binary.BigEndian.AppendUint16(seg, uint16(xdensity))
	seg = binary.BigEndian.AppendUint16(seg, uint16(ydensity))
	return append(seg, 0x00, 0x00)
}

// EnsureJFIFAPP0 inserts JFIF APP0 marker segment if it is missing. Standard
// encoder never writes one and some word processors assume 72 dpi without it.
func EnsureJFIFAPP0(jpegData []byte, dpit DpiType, xdensity, ydensity int16) ([]byte, bool, error) {
	if err := checkJPEG(jpegData); err != nil {
		return nil, false, err
	}
	if bytes.Equal(jpegData[2:4], app0Marker) {
		return jpegData, false, nil
	}
	out := make([]byte, 0, len(jpegData)+18)
	out = append(out, jpegData[:2]...)
	out = append(out, jfifSegment(dpit, xdensity, ydensity)...)
	out = append(out, jpegData[2:]...)
	return out, true, nil
}

// ReadJFIFDensity returns density stored in leading JFIF APP0 segment.
func ReadJFIFDensity(jpegData []byte) (DpiType, int, int, bool) {
	if checkJPEG(jpegData) != nil || len(jpegData) < 18 {
		return DpiNoUnits, 0, 0, false
	}
	if !bytes.Equal(jpegData[2:4], app0Marker) || !bytes.Equal(jpegData[6:11], jfifID) {
		return DpiNoUnits, 0, 0, false
	}
	units := DpiType(jpegData[13])
	x := int(binary.BigEndian.Uint16(jpegData[14:]))
	y := int(binary.BigEndian.Uint16(jpegData[16:]))
	return units, x, y, true
}

// EncodeJPEGWithDPI encodes img and makes sure result carries density.
func EncodeJPEGWithDPI(img image.Image, quality int, dpit DpiType, xdensity, ydensity int16) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), dpit, xdensity, ydensity)
	if err != nil {
		return nil, err
	}
	return out, nil
}
