package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ENV_PREFIX = "LEDGER"

	NAME_KEY      = "node.name"
	HTTP_ADDR_KEY = "http.addr"
	P2P_ADDR_KEY  = "p2p.addr"
	PEERS_KEY     = "p2p.peers"
	MINE_RATE_KEY = "ledger.mine_rate"
	TOPIC_KEY     = "pubsub.topic"
	BUFFER_KEY    = "pubsub.buffer"
	JOURNAL_KEY   = "journal.path"

	DEFAULT_HTTP_ADDR = "127.0.0.1:8080"
	DEFAULT_P2P_ADDR  = "127.0.0.1:3000"
	DEFAULT_MINE_RATE = time.Second
	DEFAULT_TOPIC     = "main"
	DEFAULT_BUFFER    = 16
)

type Config struct {
	Name         string
	HttpAddr     string
	P2pAddr      string
	Peers        []string
	MineRate     time.Duration
	Topic        string
	PubsubBuffer int
	JournalPath  string
}

func Default() Config {
	return Config{
		HttpAddr:     DEFAULT_HTTP_ADDR,
		P2pAddr:      DEFAULT_P2P_ADDR,
		Peers:        []string{},
		MineRate:     DEFAULT_MINE_RATE,
		Topic:        DEFAULT_TOPIC,
		PubsubBuffer: DEFAULT_BUFFER,
	}
}

func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(NAME_KEY, d.Name)
	v.SetDefault(HTTP_ADDR_KEY, d.HttpAddr)
	v.SetDefault(P2P_ADDR_KEY, d.P2pAddr)
	v.SetDefault(PEERS_KEY, d.Peers)
	v.SetDefault(MINE_RATE_KEY, d.MineRate)
	v.SetDefault(TOPIC_KEY, d.Topic)
	v.SetDefault(BUFFER_KEY, d.PubsubBuffer)
	v.SetDefault(JOURNAL_KEY, d.JournalPath)
}

// Load reads the optional config file, then LEDGER_* environment variables,
// on top of whatever flags were bound to v.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", file)
		}
	}

	cfg := Config{
		Name:         v.GetString(NAME_KEY),
		HttpAddr:     v.GetString(HTTP_ADDR_KEY),
		P2pAddr:      v.GetString(P2P_ADDR_KEY),
		Peers:        v.GetStringSlice(PEERS_KEY),
		MineRate:     v.GetDuration(MINE_RATE_KEY),
		Topic:        v.GetString(TOPIC_KEY),
		PubsubBuffer: v.GetInt(BUFFER_KEY),
		JournalPath:  v.GetString(JOURNAL_KEY),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.MineRate <= 0 {
		return errors.Errorf("%s must be positive, got %s", MINE_RATE_KEY, c.MineRate)
	}
	if c.MineRate.Milliseconds() == 0 {
		return errors.Errorf("%s must be at least 1ms, got %s", MINE_RATE_KEY, c.MineRate)
	}
	if c.HttpAddr == "" {
		return errors.Errorf("%s is empty", HTTP_ADDR_KEY)
	}
	if c.P2pAddr == "" {
		return errors.Errorf("%s is empty", P2P_ADDR_KEY)
	}
	if c.Topic == "" {
		return errors.Errorf("%s is empty", TOPIC_KEY)
	}
	return nil
}
