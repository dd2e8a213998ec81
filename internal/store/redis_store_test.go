package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorpay/backend/internal/models"
)

func TestRedis_GetAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key bootstraps both accounts", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRedis(client)

		seeded, _ := json.Marshal(bootstrapAccounts())
		mock.ExpectGet(KeyAccounts).RedisNil()
		mock.ExpectSet(KeyAccounts, seeded, 0).SetVal("OK")

		accounts, err := s.GetAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, DefaultAccountID, accounts[0].ID)
		assert.Equal(t, int64(100000), accounts[0].Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing key decoded as-is", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRedis(client)

		stored := []models.Account{{ID: "acc1", Name: "Account 1", Balance: 12345}}
		data, _ := json.Marshal(stored)
		mock.ExpectGet(KeyAccounts).SetVal(string(data))

		accounts, err := s.GetAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, int64(12345), accounts[0].Balance)
	})

	t.Run("redis error propagates", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRedis(client)

		mock.ExpectGet(KeyAccounts).SetErr(errors.New("connection refused"))

		_, err := s.GetAccounts(ctx)
		assert.Error(t, err)
	})
}

func TestRedis_Vendors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key reads empty", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRedis(client)

		mock.ExpectGet(KeyVendors).RedisNil()

		vendors, err := s.GetVendors(ctx)
		require.NoError(t, err)
		assert.Empty(t, vendors)
	})

	t.Run("round trip", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRedis(client)

		vendors := []models.Vendor{{ID: "v1", Name: "Alpha", PaymentType: models.PaymentTypeWeekly, BaseAmount: 10000}}
		data, _ := json.Marshal(vendors)

		mock.ExpectSet(KeyVendors, data, 0).SetVal("OK")
		require.NoError(t, s.SetVendors(ctx, vendors))

		mock.ExpectGet(KeyVendors).SetVal(string(data))
		got, err := s.GetVendors(ctx)
		require.NoError(t, err)
		assert.Equal(t, vendors, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt payload is an error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := NewRedis(client)

		mock.ExpectGet(KeyVendors).SetVal("{not json")

		_, err := s.GetVendors(ctx)
		assert.Error(t, err)
	})
}

func TestRedis_PendingAndHistory(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedis(client)

	pending := []models.PendingPayment{{ID: "p1", VendorID: "v1", Amount: 10000, Reason: models.ReasonInsufficientFunds}}
	pdata, _ := json.Marshal(pending)
	mock.ExpectSet(KeyPending, pdata, 0).SetVal("OK")
	require.NoError(t, s.SetPending(ctx, pending))

	mock.ExpectGet(KeyHistory).RedisNil()
	history, err := s.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NoError(t, mock.ExpectationsWereMet())
}
