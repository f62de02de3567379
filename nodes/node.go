package nodes

import (
	"context"
	"log"
	"net"
	"net/http"
	"simple-ledger-go/blockchain"
	"simple-ledger-go/blocks"
	"simple-ledger-go/common"
	"simple-ledger-go/config"
	"simple-ledger-go/journal"
	"simple-ledger-go/mailbox"
	"simple-ledger-go/metrics"
	"simple-ledger-go/p2p"
	"simple-ledger-go/pubsub"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	NAME_BYTES       = 6
	SHUTDOWN_TIMEOUT = 5 * time.Second
)

// Node is the only owner of its blockchain. Every read and write of the
// chain goes through the mailbox, one at a time.
type Node struct {
	id p2p.NodeId
	KnownNodes
	bc       *blockchain.Blockchain
	mailbox  *mailbox.Mailbox
	broker   *pubsub.Broker
	topic    string
	journal  *journal.Journal
	metrics  *metrics.Metrics
	httpAddr string
}

func NewNode(cfg config.Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		id, err := common.RandomId(NAME_BYTES)
		if err != nil {
			return nil, errors.Wrap(err, "generate node name")
		}
		name = id
	}

	broker := pubsub.NewBroker(cfg.PubsubBuffer, pubsub.MAIN_TOPIC, pubsub.TEST_TOPIC)
	if !broker.HasTopic(cfg.Topic) {
		return nil, errors.Wrap(pubsub.ErrUnknownTopic, cfg.Topic)
	}

	n := &Node{
		id:       p2p.NewNodeId(cfg.P2pAddr, name),
		bc:       blockchain.NewBlockchain(cfg.MineRate.Milliseconds()),
		mailbox:  mailbox.NewMailbox(mailbox.DEFAULT_MAILBOX_SIZE),
		broker:   broker,
		topic:    cfg.Topic,
		metrics:  metrics.NewMetrics(),
		httpAddr: cfg.HttpAddr,
	}
	broker.OnDrop(func(topic string) {
		n.metrics.PubsubDropped.WithLabelValues(topic).Inc()
	})
	for _, addr := range cfg.Peers {
		peer := p2p.NewNodeId(addr, "")
		if p2p.IsSameIp(peer, n.id) {
			continue
		}
		n.AppendPeer(peer)
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		n.journal = j
	}

	n.metrics.ObserveChain(n.bc.Len(), n.bc.Last().Difficulty)
	log.Printf(
		"node %s created\n topic: %s\n peers: %d\n mine rate: %dms",
		n.id.Name, n.topic, n.PeerLen(), n.bc.MineRate(),
	)
	return n, nil
}

func (n *Node) Name() string {
	return n.id.Name
}

func (n *Node) Metrics() *metrics.Metrics {
	return n.metrics
}

// GetBlocks returns a snapshot of the chain.
func (n *Node) GetBlocks(ctx context.Context) ([]blocks.Block, error) {
	var chain []blocks.Block
	err := n.mailbox.Do(ctx, func() {
		chain = n.bc.Chain()
	})
	return chain, err
}

// MineBlock appends a block carrying data and publishes the new chain. The
// chain is published by the job itself, so a caller that stops waiting does
// not keep it from peers.
func (n *Node) MineBlock(ctx context.Context, data []byte) (blocks.Block, error) {
	var block blocks.Block
	err := n.mailbox.Do(ctx, func() {
		start := time.Now()
		block = n.bc.AddBlock(data)
		n.metrics.MineDuration.Observe(time.Since(start).Seconds())
		n.metrics.BlocksMined.Inc()
		n.metrics.ObserveChain(n.bc.Len(), block.Difficulty)
		log.Printf(
			"mined block %s\n height: %d\n difficulty: %d\n nonce: %d",
			block.ShortHash(), n.bc.Len()-1, block.Difficulty, block.Nonce,
		)
		n.publish(n.bc.Chain())
	})
	if err != nil {
		return blocks.Block{}, err
	}
	return block, nil
}

func (n *Node) publish(chain []blocks.Block) {
	err := n.broker.Publish(n.topic, pubsub.Message{From: n.id.Name, Chain: chain})
	if err != nil {
		log.Printf("could not publish mined chain: %v\n", err)
	}
}

// Offer hands a candidate chain to the fork choice rule. It reports whether
// the candidate replaced the local chain and the local length right after
// that decision.
func (n *Node) Offer(ctx context.Context, candidate []blocks.Block, from string) (bool, int, error) {
	var accepted bool
	var length int
	err := n.mailbox.Do(ctx, func() {
		accepted = n.bc.Replace(candidate)
		length = n.bc.Len()
		if accepted {
			n.metrics.ObserveChain(length, n.bc.Last().Difficulty)
		}
	})
	if err != nil {
		return false, 0, err
	}
	n.metrics.ObserveOffer(accepted)

	fingerprint := blockchain.Fingerprint(candidate)
	if accepted {
		log.Printf("replaced chain with %s from %s\n length: %d\n", fingerprint[:12], from, length)
	} else {
		log.Printf(
			"rejected chain %s from %s\n candidate: %d\n local: %d\n",
			fingerprint[:12], from, len(candidate), length,
		)
	}

	if n.journal != nil {
		_, err := n.journal.Record(journal.Entry{
			At:          time.Now().UnixMilli(),
			From:        from,
			Fingerprint: fingerprint,
			Length:      len(candidate),
			Accepted:    accepted,
		})
		if err != nil {
			log.Printf("could not journal offer: %v\n", err)
		}
	}
	return accepted, length, nil
}

// Run binds the configured addresses and serves until ctx ends.
func (n *Node) Run(ctx context.Context) error {
	httpLn, err := net.Listen(p2p.TCP, n.httpAddr)
	if err != nil {
		return errors.Wrap(err, "listen http")
	}
	p2pLn, err := net.Listen(p2p.TCP, n.id.Ip)
	if err != nil {
		httpLn.Close()
		return errors.Wrap(err, "listen p2p")
	}
	return n.Serve(ctx, httpLn, p2pLn)
}

// Serve runs the mailbox, the pubsub loops, the HTTP API and the relay on
// the given listeners. It closes the listeners, the broker and the journal
// before returning.
func (n *Node) Serve(ctx context.Context, httpLn net.Listener, p2pLn net.Listener) error {
	n.id.Ip = p2pLn.Addr().String()
	defer n.broker.Close()
	if n.journal != nil {
		defer n.journal.Close()
	}

	offers, err := n.broker.Subscribe(n.topic)
	if err != nil {
		return err
	}
	outbound, err := n.broker.Subscribe(n.topic)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := n.mailbox.Run(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return n.offerLoop(gctx, offers)
	})
	g.Go(func() error {
		return n.relayLoop(gctx, outbound)
	})
	g.Go(func() error {
		return n.listenRelay(gctx, p2pLn)
	})

	server := &http.Server{Handler: n.Handler()}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		log.Printf("node %s serving http at %s, relay at %s\n", n.id.Name, httpLn.Addr(), n.id.Ip)
		err := server.Serve(httpLn)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	err = g.Wait()
	n.mailbox.Close()
	return err
}

// offerLoop offers every chain another node published on our topic.
func (n *Node) offerLoop(ctx context.Context, sub *pubsub.Subscription) error {
	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				return nil
			}
			if msg.From == n.id.Name {
				continue
			}
			_, _, err := n.Offer(ctx, msg.Chain, msg.From)
			if err != nil && ctx.Err() == nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}
