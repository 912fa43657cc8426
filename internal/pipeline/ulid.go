package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Extraction job IDs are ULIDs. The millisecond timestamp prefix means
// a job listing sorted by ID is sorted by submission time, which is
// how operators read a run history.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

func newJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// 48-bit big-endian timestamp, then 80 bits of randomness. The
	// per-millisecond sequence overwrites the first two random bytes so
	// jobs submitted in the same millisecond still sort by order.
	v := ts
	for i := 5; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeCrockford(b)
}

// encodeCrockford packs 128 bits into 26 Crockford Base32 characters.
// The leading character carries only the top 3 bits.
func encodeCrockford(b [16]byte) string {
	var out [26]byte
	out[0] = crockford[b[0]>>5]
	for i := 1; i < 26; i++ {
		out[i] = crockford[bits5(b, 3+5*(i-1))]
	}
	return string(out[:])
}

// bits5 reads the 5 bits starting at bit offset pos, counted from the
// most significant bit of b.
func bits5(b [16]byte, pos int) byte {
	idx := pos / 8
	v := uint16(b[idx]) << 8
	if idx+1 < len(b) {
		v |= uint16(b[idx+1])
	}
	return byte(v>>(11-pos%8)) & 31
}
