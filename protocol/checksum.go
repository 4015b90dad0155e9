package protocol

// Checksum computes the 1-byte block checksum: the truncated mod-256
// sum of the payload bytes. This matches the legacy boot ROM exactly;
// it is a weak check and corruptions whose byte deltas sum to a
// multiple of 256 pass undetected.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}
