package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/model"
)

// Ledger is a single opaque key-value slot holding the whole ledger
// serialized as one JSON array. There is no incremental log: every Save
// overwrites the full payload.
type Ledger interface {
	Load(ctx context.Context) ([]model.Transaction, error)
	Save(ctx context.Context, records []model.Transaction) error
}

type Redis struct {
	cli *redis.Client
	key string
}

func NewRedis(cli *redis.Client, key string) *Redis {
	return &Redis{
		cli: cli,
		key: key,
	}
}

// Load reads and parses the stored ledger. An absent slot or a malformed
// payload yields an empty ledger rather than an error: corruption is logged
// and swallowed, never surfaced to the user.
func (r *Redis) Load(ctx context.Context) ([]model.Transaction, error) {
	raw, err := r.cli.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return []model.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository.Redis couldn't Get ledger: %v", err)
	}

	var records []model.Transaction
	if err = json.Unmarshal([]byte(raw), &records); err != nil {
		logrus.Warnf("repository.Redis: malformed ledger payload, starting empty: %v", err)
		return []model.Transaction{}, nil
	}
	return records, nil
}

func (r *Redis) Save(ctx context.Context, records []model.Transaction) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("repository.Redis couldn't marshal ledger: %v", err)
	}
	if err = r.cli.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("repository.Redis couldn't Set ledger: %v", err)
	}
	return nil
}

// LocalLedger keeps the serialized ledger in memory. It backs the tests and
// the degraded mode used when redis is unreachable at startup.
type LocalLedger struct {
	raw []byte
}

func NewLocalLedger() *LocalLedger {
	return &LocalLedger{}
}

func (l *LocalLedger) Load(_ context.Context) ([]model.Transaction, error) {
	if l.raw == nil {
		return []model.Transaction{}, nil
	}
	var records []model.Transaction
	if err := json.Unmarshal(l.raw, &records); err != nil {
		logrus.Warnf("repository.LocalLedger: malformed ledger payload, starting empty: %v", err)
		return []model.Transaction{}, nil
	}
	return records, nil
}

func (l *LocalLedger) Save(_ context.Context, records []model.Transaction) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("repository.LocalLedger couldn't marshal ledger: %v", err)
	}
	l.raw = payload
	return nil
}
