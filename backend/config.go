package main

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

type Config struct {
	ListenAddr          string `json:"listen_addr"`
	AiDepth             int    `json:"ai_depth"`
	AiTimeoutMs         int    `json:"ai_timeout_ms"`
	AiPromotionKind     string `json:"ai_promotion_kind"`
	RevalidateKingMoves bool   `json:"revalidate_king_moves"`
	AiLogSearchStats    bool   `json:"ai_log_search_stats"`
	LogLevel            string `json:"log_level"`
	LogPretty           bool   `json:"log_pretty"`
	PersistPath         string `json:"persist_path"`
	WsPingIntervalMs    int    `json:"ws_ping_interval_ms"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

const maxSearchDepth = 8

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",

		// Depth 3 answers in well under a second from the opening.
		AiDepth:         3,
		AiTimeoutMs:     10000,
		AiPromotionKind: "queen",

		// Generation-time filtering alone lets a king step back along a
		// checking slider's line.
		RevalidateKingMoves: true,

		AiLogSearchStats: false,
		LogLevel:         "info",
		LogPretty:        true,
		PersistPath:      "",
		WsPingIntervalMs: 30000,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result error
	if c.AiDepth < 1 || c.AiDepth > maxSearchDepth {
		result = multierror.Append(result, errors.Errorf("ai_depth must be within 1..%d, got %d", maxSearchDepth, c.AiDepth))
	}
	if c.AiTimeoutMs < 0 {
		result = multierror.Append(result, errors.Errorf("ai_timeout_ms must not be negative, got %d", c.AiTimeoutMs))
	}
	if _, err := parsePromotionKind(c.AiPromotionKind); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "ai_promotion_kind"))
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log_level"))
	}
	if c.WsPingIntervalMs < 0 {
		result = multierror.Append(result, errors.Errorf("ws_ping_interval_ms must not be negative, got %d", c.WsPingIntervalMs))
	}
	return result
}

func (c Config) promotionKind() PieceKind {
	kind, err := parsePromotionKind(c.AiPromotionKind)
	if err != nil {
		return Queen
	}
	return kind
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return nil
}
