package nodes

import (
	"bytes"
	"context"
	"io"
	"log"
	"net"
	"simple-ledger-go/common"
	"simple-ledger-go/p2p"
	"simple-ledger-go/pubsub"
	"time"

	"github.com/pkg/errors"
)

var ErrPayloadTooLarge = errors.New("relay payload too large")

func (n *Node) send(to p2p.NodeId, data []byte) error {
	conn, err := net.DialTimeout(p2p.TCP, to.Ip, p2p.DIAL_TIMEOUT)
	if err != nil {
		return errors.Wrapf(err, "%s is not available", to.Ip)
	}
	defer conn.Close()

	_, err = io.Copy(conn, bytes.NewReader(data))
	return err
}

// broadcast keeps going when a peer is down, every peer gets its chance.
func (n *Node) broadcast(data []byte) int {
	failed := 0
	for _, peer := range n.Peers() {
		if p2p.IsSameIp(peer, n.id) {
			continue
		}
		err := n.send(peer, data)
		if err != nil {
			log.Printf("relay to %s failed: %v\n", peer.Ip, err)
			n.metrics.RelayFailures.Inc()
			failed++
		}
	}
	return failed
}

// relayLoop sends the chains this node published to every known peer.
func (n *Node) relayLoop(ctx context.Context, sub *pubsub.Subscription) error {
	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				return nil
			}
			if msg.From != n.id.Name || n.PeerLen() == 0 {
				continue
			}
			enc, err := common.Encode(p2p.ChainMsg{
				From:  n.id,
				Topic: sub.Topic(),
				Chain: msg.Chain,
			})
			if err != nil {
				return err
			}
			log.Printf("relaying chain of %d blocks to %d peers\n", len(msg.Chain), n.PeerLen())
			n.broadcast(p2p.CHAIN_MSG.MakePayload(enc))
		case <-ctx.Done():
			return nil
		}
	}
}

func (n *Node) listenRelay(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accept relay connection")
		}
		go n.handleConnection(conn)
	}
}

func (n *Node) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(p2p.READ_TIMEOUT))
	request, err := readPayload(conn)
	if err != nil {
		log.Printf("reading from %s failed: %v\n", conn.RemoteAddr(), err)
		return
	}

	msgKind, body, err := p2p.SplitPayload(request)
	if err != nil {
		log.Printf("bad payload from %s: %v\n", conn.RemoteAddr(), err)
		return
	}
	log.Printf("received msg '%s'\n", msgKind.ToString())

	switch msgKind {
	case p2p.CHAIN_MSG:
		err = n.handleChain(body)
	default:
		log.Println("unknown message skipping...")
	}
	if err != nil {
		log.Printf("handling '%s' failed: %v\n", msgKind.ToString(), err)
	}
}

// readPayload reads one message, a kind byte plus a body of at most
// MAX_BODY_BYTES.
func readPayload(r io.Reader) ([]byte, error) {
	limit := int64(MAX_BODY_BYTES + 1)
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, errors.Wrapf(ErrPayloadTooLarge, "more than %d bytes", limit)
	}
	return raw, nil
}

func (n *Node) handleChain(raw []byte) error {
	msg, err := common.Decode[p2p.ChainMsg](raw)
	if err != nil {
		return err
	}
	if msg.From.Name == n.id.Name {
		return nil
	}
	if !n.broker.HasTopic(msg.Topic) {
		log.Printf("chain for unknown topic '%s' skipping...\n", msg.Topic)
		return nil
	}
	return n.broker.Publish(msg.Topic, pubsub.Message{
		From:  msg.From.Name,
		Chain: msg.Chain,
	})
}
