package timelock

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Domain prefix for entry identity. The version suffix allows the encoding
// to change without colliding with historical hashes.
const hashDomain = "equorum/timelock/v1"

// TxHash computes the content hash identifying a queued entry.
//
// The encoding is length-prefixed and domain-separated: the null byte after
// the domain and the explicit lengths before signature and payload prevent
// boundary ambiguity between fields.
func TxHash(call Call, eta time.Time) common.Hash {
	var buf bytes.Buffer
	buf.WriteString(hashDomain)
	buf.WriteByte(0x00)

	buf.Write(call.Target.Bytes())

	value := call.Value
	if value == nil {
		value = new(uint256.Int)
	}
	v := value.Bytes32()
	buf.Write(v[:])

	writeLenPrefixed(&buf, []byte(call.Signature))
	writeLenPrefixed(&buf, call.Payload)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(eta.Unix()))
	buf.Write(ts[:])

	return crypto.Keccak256Hash(buf.Bytes())
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	buf.Write(n[:])
	buf.Write(b)
}
