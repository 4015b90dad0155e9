// Package kwbimage validates and patches the main header of Marvell
// kwbimage boot images.
//
// # Header Format
//
// Both known header versions occupy the first 32 bytes of the image
// and end in a 1-byte additive checksum of the preceding 31 bytes:
//
//	v0: [blockid][nandeccmode][nandpagesize:2][blocksize:4][rsvd:4]
//	    [srcaddr:4][destaddr:4][execaddr:4][rsvd:6][ddrinitdelay:2]
//	    [rsvd:2][ext][checksum]
//	v1: [blockid][flags][nandpagesize:2][blocksize:4][version]
//	    [headersz:3][srcaddr:4][destaddr:4][execaddr:4][options]
//	    [nandblocksize][nandbadblklocation][rsvd:3][ext][checksum]
//
// Multi-byte fields are little-endian. The byte at offset 8 holds the
// header version (v0 images carry 0 there as reserved space).
//
// The blockid field names the boot transport the image was prepared
// for (SPI, NAND, SATA, UART, ...). An image built for another
// transport must be re-tagged for UART before the boot ROM will accept
// it over the serial line; PatchHeader does that in place and keeps
// the stored checksum consistent.
//
// # Usage
//
//	img, _ := os.ReadFile("u-boot.kwb")
//	if err := kwbimage.PatchHeader(img); err != nil {
//	    log.Fatal(err) // not a kwbimage, or corrupt header
//	}
//	// img is now ready for the UART transfer
package kwbimage
