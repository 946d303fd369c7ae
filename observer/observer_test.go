package observer

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/hedeqiang/sieve/event"
)

type counting struct {
	calls []string
}

func (c *counting) BlockSkipped(*event.Block)      { c.calls = append(c.calls, "skipped") }
func (c *counting) BlockChecked(*event.Block)      { c.calls = append(c.calls, "checked") }
func (c *counting) StatusNotOK(*event.Transaction) { c.calls = append(c.calls, "failed") }
func (c *counting) Matched(*event.Transaction)     { c.calls = append(c.calls, "matched") }

func TestChain(t *testing.T) {
	require.Equal(t, Nop{}, Chain())
	require.Equal(t, Nop{}, Chain(nil, nil))

	single := &counting{}
	require.Same(t, single, Chain(nil, single))

	a, b := &counting{}, &counting{}
	o := Chain(a, nil, b)
	o.BlockSkipped(&event.Block{})
	o.BlockChecked(&event.Block{})
	o.StatusNotOK(&event.Transaction{})
	o.Matched(&event.Transaction{})

	want := []string{"skipped", "checked", "failed", "matched"}
	require.Equal(t, want, a.calls)
	require.Equal(t, want, b.calls)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.BlockSkipped(&event.Block{})
	m.BlockSkipped(&event.Block{})
	m.BlockChecked(&event.Block{})
	m.StatusNotOK(&event.Transaction{})
	m.Matched(&event.Transaction{})

	require.Equal(t, uint64(2), m.Skipped())
	require.Equal(t, uint64(1), m.Checked())
	require.Equal(t, uint64(1), m.Failed())
	require.Equal(t, uint64(1), m.MatchCount())
}

func TestLogger_WritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(log.NewLogger(log.NewTerminalHandlerWithLevel(&buf, log.LevelWarn, false)))

	l.BlockSkipped(&event.Block{Number: 1})
	l.BlockChecked(&event.Block{Number: 1})
	l.Matched(&event.Transaction{})
	require.Empty(t, buf.String())

	l.StatusNotOK(&event.Transaction{BlockNumber: 7})
	require.Contains(t, buf.String(), "status was NOT OK")
}

func TestLogger_MatchedIsDebugOnly(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(log.NewLogger(log.NewTerminalHandlerWithLevel(&buf, log.LevelInfo, false)))
	l.Matched(&event.Transaction{BlockNumber: 7})
	require.Empty(t, buf.String())

	l = NewLogger(log.NewLogger(log.NewTerminalHandlerWithLevel(&buf, log.LevelDebug, false)))
	l.Matched(&event.Transaction{BlockNumber: 7})
	require.Contains(t, buf.String(), "Transaction matched")
}

func TestLogger_DefaultsToRoot(t *testing.T) {
	require.NotNil(t, NewLogger(nil).logger)
}
