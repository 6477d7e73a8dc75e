// internal/codec/ascii.go
package codec

import "strings"

// DecodeASCII reads two big-endian ASCII bytes per register.
// Non-printable bytes (including NUL padding) are dropped and the
// result is trimmed.
func DecodeASCII(regs []uint16) string {
	b := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		for _, c := range [2]byte{byte(r >> 8), byte(r)} {
			if c < 0x20 || c > 0x7E {
				continue
			}
			b = append(b, c)
		}
	}
	return strings.TrimSpace(string(b))
}

// EncodeASCII packs up to 2*n ASCII characters into n registers,
// zero padded. Non-printable characters become '?'.
func EncodeASCII(s string, n int) []uint16 {
	out := make([]uint16, n)

	b := []byte(s)
	if len(b) > 2*n {
		b = b[:2*n]
	}

	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < 2*n; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
