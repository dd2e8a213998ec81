package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/vendorpay/backend/internal/models"
)

// Redis stores each collection as a JSON blob under a fixed key, the
// direct analog of the local-storage layout this system started from.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) GetVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := s.getList(ctx, KeyVendors, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

func (s *Redis) SetVendors(ctx context.Context, vendors []models.Vendor) error {
	return s.setList(ctx, KeyVendors, vendors)
}

func (s *Redis) GetAccounts(ctx context.Context) ([]models.Account, error) {
	data, err := s.client.Get(ctx, KeyAccounts).Bytes()
	if err == redis.Nil {
		accounts := bootstrapAccounts()
		if err := s.SetAccounts(ctx, accounts); err != nil {
			return nil, err
		}
		return accounts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", KeyAccounts, err)
	}

	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyAccounts, err)
	}
	return accounts, nil
}

func (s *Redis) SetAccounts(ctx context.Context, accounts []models.Account) error {
	return s.setList(ctx, KeyAccounts, accounts)
}

func (s *Redis) GetPending(ctx context.Context) ([]models.PendingPayment, error) {
	var pending []models.PendingPayment
	if err := s.getList(ctx, KeyPending, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *Redis) SetPending(ctx context.Context, pending []models.PendingPayment) error {
	return s.setList(ctx, KeyPending, pending)
}

func (s *Redis) GetHistory(ctx context.Context) ([]models.PaymentRecord, error) {
	var history []models.PaymentRecord
	if err := s.getList(ctx, KeyHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Redis) SetHistory(ctx context.Context, history []models.PaymentRecord) error {
	return s.setList(ctx, KeyHistory, history)
}

// getList leaves dest empty when the key has never been written.
func (s *Redis) getList(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Redis) setList(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
