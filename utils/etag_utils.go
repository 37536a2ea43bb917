package utils

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentETag returns a quoted entity tag computed from the content hash.
func ContentETag(data []byte) string {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, xxhash.Sum64(data))
	return "\"" + hex.EncodeToString(buf) + "\""
}
