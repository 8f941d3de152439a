package store

import (
	"errors"
	"testing"

	"github.com/genesys-ai/botconnector/internal/config"
)

func TestNew_DefaultsToMemory(t *testing.T) {
	cfg := config.Default()

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	if _, ok := s.(*Memory); !ok {
		t.Errorf("expected *Memory backend, got %T", s)
	}
}

func TestNew_RedisWithoutAddrIsRefused(t *testing.T) {
	cfg := config.Default()
	cfg.SessionStore = config.StoreRedis

	_, err := New(cfg)
	if !errors.Is(err, ErrUnconfigured) {
		t.Errorf("expected ErrUnconfigured, got %v", err)
	}
}
