package nodes

import (
	"simple-ledger-go/p2p"
	"sync"

	"golang.org/x/exp/slices"
)

// KnownNodes is the static peer list a node relays its chain to.
type KnownNodes struct {
	sync.Mutex
	peers []p2p.NodeId
}

// AppendPeer skips ids whose address is already known.
func (kn *KnownNodes) AppendPeer(id ...p2p.NodeId) {
	kn.Lock()
	defer kn.Unlock()
	for _, peer := range id {
		idx := slices.IndexFunc(kn.peers, func(known p2p.NodeId) bool {
			return p2p.IsSameIp(known, peer)
		})
		if idx < 0 {
			kn.peers = append(kn.peers, peer)
		}
	}
}

func (kn *KnownNodes) Peers() []p2p.NodeId {
	kn.Lock()
	defer kn.Unlock()
	return slices.Clone(kn.peers)
}

func (kn *KnownNodes) PeerLen() int {
	kn.Lock()
	defer kn.Unlock()
	return len(kn.peers)
}
