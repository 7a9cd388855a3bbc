package badger

import (
	"encoding/binary"

	"github.com/poiesic/officelines/core"
)

const (
	linePrefix       = "line:"
	checkpointPrefix = "chkpt:"
)

// makeLineKey encodes the id big endian so that prefix iteration yields
// lines in ascending id order.
func makeLineKey(id core.ID) []byte {
	buf := make([]byte, len(linePrefix)+8)
	offset := copy(buf, linePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func makeCheckpointKey(source string) []byte {
	return []byte(checkpointPrefix + source)
}
