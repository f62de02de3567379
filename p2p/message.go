package p2p

import (
	"fmt"
	"simple-ledger-go/blocks"

	"github.com/pkg/errors"
)

type MessageKind byte

const (
	CHAIN_MSG MessageKind = iota + 1
)

var ErrEmptyPayload = errors.New("empty payload")

func (mk MessageKind) MakePayload(data []byte) []byte {
	bs := make([]byte, 0, len(data)+1)
	bs = append(bs, byte(mk))
	bs = append(bs, data...)
	return bs
}

func (mk MessageKind) ToString() string {
	switch mk {
	case CHAIN_MSG:
		return "chain message"
	default:
		return fmt.Sprintf("unknown message %d", mk)
	}
}

// SplitPayload is the inverse of MakePayload.
func SplitPayload(raw []byte) (MessageKind, []byte, error) {
	if len(raw) == 0 {
		return 0, nil, ErrEmptyPayload
	}
	return MessageKind(raw[0]), raw[1:], nil
}

// ChainMsg carries a whole chain snapshot to a peer, which offers it to its
// own ledger.
type ChainMsg struct {
	From  NodeId
	Topic string
	Chain []blocks.Block
}
