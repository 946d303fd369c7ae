package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hedeqiang/sieve/event"
	"github.com/hedeqiang/sieve/internal/chaintest"
)

var fastPolls = Config{PollInterval: time.Millisecond}

func pull(t *testing.T, s Blocks, n int) []uint64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	numbers := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		b, err := s.Next(ctx)
		require.NoError(t, err)
		numbers = append(numbers, b.Number)
	}
	return numbers
}

func TestRelevant_YieldsBlocksSinceStartOldestFirst(t *testing.T) {
	c := chaintest.New("test")
	for ts := uint64(100); ts < 160; ts += 10 {
		c.Mine(ts)
	}

	s := NewRelevant(c, time.Unix(120, 0), fastPolls)
	require.Equal(t, []uint64{2, 3, 4, 5}, pull(t, s, 4))
}

func TestRelevant_NeverYieldsPredatingBlocks(t *testing.T) {
	c := chaintest.New("test")
	c.Mine(100)
	c.Mine(110)

	s := NewRelevant(c, time.Unix(200, 0), fastPolls)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRelevant_StopsAtGenesis(t *testing.T) {
	c := chaintest.New("test")
	c.Mine(100)
	c.Mine(110)

	s := NewRelevant(c, time.Unix(0, 0), fastPolls)
	require.Equal(t, []uint64{0, 1}, pull(t, s, 2))
}

func TestRelevant_FollowsNewHeads(t *testing.T) {
	c := chaintest.New("test")
	c.Mine(100)
	c.Mine(110)

	s := NewRelevant(c, time.Unix(105, 0), fastPolls)
	require.Equal(t, []uint64{1}, pull(t, s, 1))

	c.Mine(120)
	c.Mine(130)
	require.Equal(t, []uint64{2, 3}, pull(t, s, 2))

	// Walking back stops at the last yielded block.
	_, byHash := c.Calls()
	require.Equal(t, 2, byHash)
}

func TestRelevant_PropagatesConnectorErrors(t *testing.T) {
	c := chaintest.New("test")
	c.Mine(100)
	boom := errors.New("node down")
	c.SetErr(boom)

	s := NewRelevant(c, time.Unix(0, 0), fastPolls)
	_, err := s.Next(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRelevant_HeadWithoutHashIsAnError(t *testing.T) {
	src := headOnly{block: &event.Block{}}

	s := NewRelevant(src, time.Unix(0, 0), fastPolls)
	_, err := s.Next(context.Background())
	require.ErrorIs(t, err, event.ErrBlockWithoutHash)
}

func TestRelevant_DefaultsPollInterval(t *testing.T) {
	s := NewRelevant(chaintest.New("test"), time.Unix(0, 0), Config{})
	require.Equal(t, DefaultConfig().PollInterval, s.config.PollInterval)
}

func TestOf_EndsWithGivenError(t *testing.T) {
	boom := errors.New("boom")
	s := Of(boom, &event.Block{Number: 7})

	b, err := s.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(7), b.Number)

	_, err = s.Next(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = Of(nil).Next(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
}

type headOnly struct {
	block *event.Block
}

func (h headOnly) LatestBlock(context.Context) (*event.Block, error) {
	return h.block, nil
}

func (h headOnly) BlockByHash(context.Context, event.Hash) (*event.Block, error) {
	return nil, errors.New("unexpected")
}
