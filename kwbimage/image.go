package kwbimage

import (
	"encoding/binary"
	"fmt"
)

// Boot source IDs carried in the header's blockid field.
const (
	// BootSourceI2C - image stored on an I2C EEPROM
	BootSourceI2C = 0x4D

	// BootSourceSPI - image stored on SPI flash
	BootSourceSPI = 0x5A

	// BootSourceNAND - image stored on NAND flash
	BootSourceNAND = 0x8B

	// BootSourceSATA - image stored on a SATA device
	BootSourceSATA = 0x78

	// BootSourcePEX - image delivered over PCI Express
	BootSourcePEX = 0x9C

	// BootSourceUART - image pushed over the serial line; the tag this
	// package patches images to
	BootSourceUART = 0x69
)

// ECCDisabled is the v0 nandeccmode value that turns NAND ECC off.
// UART-delivered images have no flash geometry, so ECC must be off.
const ECCDisabled = 0x98

// Header geometry.
const (
	// HeaderSize is the size of the checksummed main header
	HeaderSize = 0x20

	// FullHeaderSizeV0 is the size of a v0 main header plus its
	// extension header; the payload of an extended v0 image starts
	// here
	FullHeaderSizeV0 = 0x200
)

// Field offsets shared by both header versions.
const (
	offBlockID  = 0x00
	offVersion  = 0x08 // reserved (0) in v0 images
	offSrcAddr  = 0x0C
	offDestAddr = 0x10
	offExecAddr = 0x14
	offExt      = 0x1E
	offChecksum = 0x1F

	// v0 only
	offNandECCMode  = 0x01
	offNandPageSize = 0x02
)

// Header is the parsed, validated view of an image's main header.
type Header struct {
	// Version is the header format version, 0 or 1
	Version int

	// BootSource is the transport tag from the blockid field
	BootSource byte

	// SrcAddr is the payload start offset within the image
	SrcAddr uint32

	// DestAddr is the RAM address the boot ROM copies the payload to
	DestAddr uint32

	// ExecAddr is the entry point jumped to after the copy
	ExecAddr uint32

	// Extended reports whether an extension header follows the main one
	Extended bool
}

// Parse validates the image's main header and returns its parsed form.
// The header checksum must match; a mismatch means the file is not a
// kwbimage or has been corrupted.
func Parse(img []byte) (*Header, error) {
	if len(img) < HeaderSize {
		return nil, &InvalidImageError{
			Reason: fmt.Sprintf("image is %d bytes, shorter than the %d-byte header", len(img), HeaderSize),
		}
	}

	version := int(img[offVersion])
	if version != 0 && version != 1 {
		return nil, &InvalidImageError{
			Reason: fmt.Sprintf("unknown header version %d", version),
		}
	}

	if got, want := checksum(img), img[offChecksum]; got != want {
		return nil, &InvalidImageError{
			Reason: fmt.Sprintf("header checksum 0x%02X, computed 0x%02X", want, got),
		}
	}

	return &Header{
		Version:    version,
		BootSource: img[offBlockID],
		SrcAddr:    binary.LittleEndian.Uint32(img[offSrcAddr:]),
		DestAddr:   binary.LittleEndian.Uint32(img[offDestAddr:]),
		ExecAddr:   binary.LittleEndian.Uint32(img[offExecAddr:]),
		Extended:   img[offExt] != 0,
	}, nil
}

// PatchHeader re-tags the image for UART boot, in place. Images
// already tagged for UART are left byte-for-byte untouched. For v0
// headers the NAND-specific fields are cleared (ECC off, page size 0)
// and the payload start offset is recomputed from the header geometry;
// v1 headers only need the transport tag. The stored checksum is
// recomputed so the modified header remains self-consistent.
func PatchHeader(img []byte) error {
	hdr, err := Parse(img)
	if err != nil {
		return err
	}

	if hdr.BootSource == BootSourceUART {
		return nil
	}

	img[offBlockID] = BootSourceUART

	if hdr.Version == 0 {
		img[offNandECCMode] = ECCDisabled
		binary.LittleEndian.PutUint16(img[offNandPageSize:], 0)

		srcaddr := uint32(HeaderSize)
		if hdr.Extended {
			srcaddr = FullHeaderSizeV0
		}
		binary.LittleEndian.PutUint32(img[offSrcAddr:], srcaddr)
	}

	img[offChecksum] = checksum(img)
	return nil
}

// BootSourceName returns a human-readable name for a blockid value.
func BootSourceName(id byte) string {
	switch id {
	case BootSourceI2C:
		return "i2c"
	case BootSourceSPI:
		return "spi"
	case BootSourceNAND:
		return "nand"
	case BootSourceSATA:
		return "sata"
	case BootSourcePEX:
		return "pex"
	case BootSourceUART:
		return "uart"
	default:
		return fmt.Sprintf("unknown (0x%02X)", id)
	}
}

// checksum computes the 8-bit additive checksum of the main header,
// excluding the stored checksum byte itself.
func checksum(img []byte) byte {
	var sum byte
	for _, b := range img[:offChecksum] {
		sum += b
	}
	return sum
}

// InvalidImageError indicates that a buffer is not a structurally
// valid kwbimage.
type InvalidImageError struct {
	Reason string
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image: %s", e.Reason)
}
