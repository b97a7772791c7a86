package journal

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Journal is the versioned envelope persisted and gossiped for each host
// block: a one-byte version tag followed by a version-specific body, so
// that future journal formats can be introduced without breaking readers
// of older ones.
type Journal struct {
	version Version
	v1      *HostJournal
}

// NewJournalV1 wraps a HostJournal as the current (only) journal version.
func NewJournalV1(h *HostJournal) Journal {
	return Journal{version: V1, v1: h}
}

func (j Journal) Version() Version { return j.version }

// AsV1 returns the wrapped HostJournal, or false if this Journal carries
// a different version.
func (j Journal) AsV1() (*HostJournal, bool) {
	if j.version != V1 {
		return nil, false
	}
	return j.v1, true
}

// Encode returns the wire form: version byte, then the version body.
func (j Journal) Encode() ([]byte, error) {
	switch j.version {
	case V1:
		buf := make([]byte, 0, 1+len(j.v1.Serialized()))
		buf = append(buf, byte(V1))
		buf = append(buf, j.v1.Serialized()...)
		return buf, nil
	default:
		return nil, fmt.Errorf("journal: unknown version %d", j.version)
	}
}

// Hash returns the content hash of the wrapped journal body. For V1 this
// is HostJournal.JournalHash, not a hash of the version byte.
func (j Journal) Hash() (common.Hash, error) {
	switch j.version {
	case V1:
		return j.v1.JournalHash(), nil
	default:
		return common.Hash{}, fmt.Errorf("journal: unknown version %d", j.version)
	}
}
