package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hedeqiang/sieve/chain"
	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/internal/chaintest"
)

func TestConnector_CachesReceipts(t *testing.T) {
	c := chaintest.New("test")
	c.Mine(100, chaintest.Tx{
		Transaction: event.Transaction{Hash: chaintest.TxHash(1)},
		Receipt:     event.Receipt{Status: event.ReceiptStatusSuccessful},
	})

	cached, err := New(c, 8)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		r, err := cached.ReceiptByHash(context.Background(), chaintest.TxHash(1))
		require.NoError(t, err)
		require.True(t, r.IsStatusOK())
	}
	require.Len(t, c.Receipts(), 1)
}

func TestConnector_CachesBlocksButNotTheHead(t *testing.T) {
	c := chaintest.New("test")
	c.Mine(100)
	c.Mine(110)

	cached, err := New(c, 8)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		b, err := cached.BlockByHash(ctx, chaintest.BlockHash(0))
		require.NoError(t, err)
		require.Equal(t, uint64(0), b.Number)

		_, err = cached.LatestBlock(ctx)
		require.NoError(t, err)
	}

	latest, byHash := c.Calls()
	require.Equal(t, 2, latest)
	require.Equal(t, 1, byHash)

	blocks, receipts := cached.Len()
	require.Equal(t, 1, blocks)
	require.Equal(t, 0, receipts)
}

func TestConnector_DoesNotCacheErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := chain.NewMockConnector(ctrl)

	hash := chaintest.TxHash(1)
	gomock.InOrder(
		conn.EXPECT().ReceiptByHash(gomock.Any(), hash).Return(nil, chain.ErrNotFound),
		conn.EXPECT().ReceiptByHash(gomock.Any(), hash).Return(&event.Receipt{TxHash: hash}, nil),
	)

	cached, err := New(conn, 8)
	require.NoError(t, err)

	_, err = cached.ReceiptByHash(context.Background(), hash)
	require.True(t, errors.Is(err, chain.ErrNotFound))

	r, err := cached.ReceiptByHash(context.Background(), hash)
	require.NoError(t, err)
	require.Equal(t, hash, r.TxHash)
}

func TestConnector_EvictsLeastRecentlyUsed(t *testing.T) {
	c := chaintest.New("test")
	for ts := uint64(100); ts < 130; ts += 10 {
		c.Mine(ts)
	}

	cached, err := New(c, 2)
	require.NoError(t, err)

	ctx := context.Background()
	for _, n := range []uint64{0, 1, 2, 0} {
		_, err := cached.BlockByHash(ctx, chaintest.BlockHash(n))
		require.NoError(t, err)
	}
	_, byHash := c.Calls()
	require.Equal(t, 4, byHash)
}

type timedChain struct {
	*chaintest.Chain
}

func (timedChain) BlockTime() time.Duration { return time.Second }

func TestConnector_ForwardsIdentity(t *testing.T) {
	cached, err := New(timedChain{chaintest.New("bsc")}, 0)
	require.NoError(t, err)
	require.Equal(t, "bsc", cached.ID())
	require.Equal(t, time.Second, cached.BlockTime())

	plain, err := New(chaintest.New("eth"), 0)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), plain.BlockTime())
}
