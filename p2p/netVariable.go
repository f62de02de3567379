package p2p

import (
	"strings"
	"time"
)

const (
	TCP          = "tcp"
	DIAL_TIMEOUT = 3 * time.Second
	READ_TIMEOUT = 10 * time.Second
)

type NodeId struct {
	Ip   string
	Name string
}

func NewNodeId(addr string, name string) NodeId {
	return NodeId{
		Ip:   addr,
		Name: name,
	}
}

func IsSameIp(nodeA NodeId, nodeB NodeId) bool {
	return strings.Compare(nodeA.Ip, nodeB.Ip) == 0
}
