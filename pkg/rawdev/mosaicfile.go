package rawdev

import(
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/JVision/librtprocess/pkg/bayer"
	"github.com/JVision/librtprocess/pkg/emath"
)

// A .mzst file is a single zstd frame holding a little-endian header
//
//   "MZST", uint32 version, uint32 width, uint32 height, [4]uint8 CFA (row major)
//
// followed by width*height float32 samples in row order.
const(
	mosaicMagic      = "MZST"
	mosaicVersion    = 1
	mosaicMaxSamples = 1 << 28
)

// A MosaicFile is a raw plane together with the layout of its filter array.
type MosaicFile struct {
	CFA bayer.CFA
	Raw *emath.Plane
}

type mosaicHeader struct {
	Magic   [4]byte
	Version uint32
	Width   uint32
	Height  uint32
	CFA     [4]uint8
}

func WriteMosaic(w io.Writer, mf MosaicFile) error {
	if err := mf.CFA.Validate(); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("mosaic zstd writer: %v", err)
	}
	bw := bufio.NewWriter(zw)

	hdr := mosaicHeader{
		Version: mosaicVersion,
		Width:   uint32(mf.Raw.Width()),
		Height:  uint32(mf.Raw.Height()),
		CFA:     [4]uint8{uint8(mf.CFA[0][0]), uint8(mf.CFA[0][1]), uint8(mf.CFA[1][0]), uint8(mf.CFA[1][1])},
	}
	copy(hdr.Magic[:], mosaicMagic)

	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		zw.Close()
		return fmt.Errorf("mosaic header: %v", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, mf.Raw.Values()); err != nil {
		zw.Close()
		return fmt.Errorf("mosaic samples: %v", err)
	}
	if err := bw.Flush(); err != nil {
		zw.Close()
		return fmt.Errorf("mosaic flush: %v", err)
	}
	return zw.Close()
}

func ReadMosaic(r io.Reader) (MosaicFile, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return MosaicFile{}, fmt.Errorf("mosaic zstd reader: %v", err)
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	hdr := mosaicHeader{}
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return MosaicFile{}, fmt.Errorf("mosaic header: %v", err)
	}
	if string(hdr.Magic[:]) != mosaicMagic {
		return MosaicFile{}, fmt.Errorf("mosaic: bad magic %q", hdr.Magic[:])
	}
	if hdr.Version != mosaicVersion {
		return MosaicFile{}, fmt.Errorf("mosaic: version %d not supported", hdr.Version)
	}
	if n := uint64(hdr.Width) * uint64(hdr.Height); n > mosaicMaxSamples {
		return MosaicFile{}, fmt.Errorf("mosaic: %dx%d is too big", hdr.Width, hdr.Height)
	}

	mf := MosaicFile{}
	for i, c := range hdr.CFA {
		mf.CFA[i/2][i%2] = bayer.Color(c)
	}
	if err := mf.CFA.Validate(); err != nil {
		return MosaicFile{}, err
	}

	vals := make([]float32, int(hdr.Width) * int(hdr.Height))
	if err := binary.Read(br, binary.LittleEndian, vals); err != nil {
		return MosaicFile{}, fmt.Errorf("mosaic samples: %v", err)
	}
	if mf.Raw, err = emath.NewPlaneFromSlice(int(hdr.Width), int(hdr.Height), vals); err != nil {
		return MosaicFile{}, err
	}

	return mf, nil
}

func WriteMosaicFile(filename string, mf MosaicFile) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return WriteMosaic(writer, mf)
	}
}

func ReadMosaicFile(filename string) (MosaicFile, error) {
	if reader, err := os.Open(filename); err != nil {
		return MosaicFile{}, fmt.Errorf("open+r '%s': %v", filename, err)
	} else {
		defer reader.Close()
		return ReadMosaic(reader)
	}
}
