package filter

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/hedeqiang/sieve/event"
)

var (
	contract = event.MustHexToAddress("0xe46FB33e4DB653De84cB0E0E8b810A6c4cD39d59")
	other    = event.MustHexToAddress("0xd51ecee7414c4445534f74208538683702cbb3e4")

	topicA = event.MustHexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
	topicB = event.MustHexToHash("0x000000000000000000000000e46fb33e4db653de84cb0e0e8b810a6c4cd39d59")
	topicC = event.MustHexToHash("0x000000000000000000000000d51ecee7414c4445534f74208538683702cbb3e4")
)

func TestEvent_MatchIsPositionSensitive(t *testing.T) {
	log := event.Log{Address: contract, Topics: []event.Hash{topicA, topicB}}

	require.True(t, NewEvent(contract, Exactly(topicA), Exactly(topicB)).Match(log))
	require.False(t, NewEvent(contract, Exactly(topicB), Exactly(topicA)).Match(log))
}

func TestEvent_WildcardMatchesAnyValue(t *testing.T) {
	ev := NewEvent(contract, Any(), Exactly(topicB))

	require.True(t, ev.Match(event.Log{Address: contract, Topics: []event.Hash{topicA, topicB}}))
	require.True(t, ev.Match(event.Log{Address: contract, Topics: []event.Hash{topicC, topicB}}))
	require.False(t, ev.Match(event.Log{Address: contract, Topics: []event.Hash{topicB, topicC}}))
}

func TestEvent_TopicCountMustBeEqual(t *testing.T) {
	ev := NewEvent(contract, Exactly(topicA), Any())

	require.False(t, ev.Match(event.Log{Address: contract, Topics: []event.Hash{topicA}}))
	require.True(t, ev.Match(event.Log{Address: contract, Topics: []event.Hash{topicA, topicC}}))
	require.False(t, ev.Match(event.Log{Address: contract, Topics: []event.Hash{topicA, topicC, topicB}}))
}

func TestEvent_AddressMustBeEqual(t *testing.T) {
	ev := NewEvent(contract, Exactly(topicA))
	require.False(t, ev.Match(event.Log{Address: other, Topics: []event.Hash{topicA}}))
}

func TestEvent_WithoutTopicsMatchesNothing(t *testing.T) {
	ev := NewEvent(contract)
	require.False(t, ev.Match(event.Log{Address: contract}))

	_, found := FindLog(ev, &event.Receipt{Logs: []event.Log{{Address: contract}}})
	require.False(t, found)
}

func TestFindLog_ReturnsFirstMatchInReceiptOrder(t *testing.T) {
	ev := NewEvent(contract, Any(), Exactly(topicB), Any())
	receipt := &event.Receipt{Logs: []event.Log{
		{Address: other, Topics: []event.Hash{topicA, topicB, topicC}, LogIndex: 0},
		{Address: contract, Topics: []event.Hash{topicA, topicB}, LogIndex: 1},
		{Address: contract, Topics: []event.Hash{topicA, topicB, topicC}, LogIndex: 2},
		{Address: contract, Topics: []event.Hash{topicC, topicB, topicA}, LogIndex: 3},
	}}

	log, found := FindLog(ev, receipt)
	require.True(t, found)
	require.Equal(t, uint(2), log.LogIndex)
}

func TestFindLog_NoMatch(t *testing.T) {
	ev := NewEvent(contract, Exactly(topicA))
	_, found := FindLog(ev, &event.Receipt{})
	require.False(t, found)
}

func TestEvent_String(t *testing.T) {
	ev := NewEvent(contract, Any(), Exactly(topicA))
	require.Equal(t, contract.Hex()+"[_,"+topicA.Hex()+"]", ev.String())
}

func TestComposite_EmptyCompositions(t *testing.T) {
	log := event.Log{}
	require.True(t, AllOf().Match(log))
	require.False(t, AnyOf().Match(log))
}

func TestComposite_AnyOfMatchesEitherAddress(t *testing.T) {
	f := AnyOf(EmitterFilter(contract), EmitterFilter(other))
	require.True(t, f.Match(event.Log{Address: other}))
	require.False(t, f.Match(event.Log{Address: event.Address{9}}))
}

func TestTopicFilter_OutOfRangePositionDoesNotMatch(t *testing.T) {
	f := NewTopicFilter(3, topicA)
	require.False(t, f.Match(event.Log{Topics: []event.Hash{topicA}}))
}

func TestHasRequiredTopics(t *testing.T) {
	require.False(t, HasRequiredTopics(nil))
	require.False(t, HasRequiredTopics([]*event.Hash{Any(), Any()}))
	require.True(t, HasRequiredTopics([]*event.Hash{Any(), Exactly(topicA)}))
}

func TestMaybeContains_AllWildcardsAlwaysPass(t *testing.T) {
	require.True(t, MaybeContains(types.Bloom{}, []*event.Hash{Any(), Any()}))
	require.True(t, MaybeContains(types.Bloom{}, nil))
}

func TestMaybeContains_MissingRequiredTopicIsDefinitelyAbsent(t *testing.T) {
	var bloom types.Bloom
	bloom.Add(topicA.Bytes())

	require.True(t, MaybeContains(bloom, []*event.Hash{Exactly(topicA)}))
	require.False(t, MaybeContains(types.Bloom{}, []*event.Hash{Exactly(topicA)}))
}

func TestMaybeContains_NeverProducesFalseNegatives(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	randomHash := func() event.Hash {
		var h event.Hash
		rnd.Read(h[:])
		return h
	}

	for i := 0; i < 500; i++ {
		n := 1 + rnd.Intn(4)
		log := event.Log{Address: contract, Topics: make([]event.Hash, n)}
		pattern := make([]*event.Hash, n)
		for j := range log.Topics {
			log.Topics[j] = randomHash()
			if rnd.Intn(2) == 0 {
				pattern[j] = Exactly(log.Topics[j])
			}
		}

		// Other logs of the block share the bloom.
		var bloom types.Bloom
		for k := rnd.Intn(8); k > 0; k-- {
			h := randomHash()
			bloom.Add(h.Bytes())
		}
		bloom.Add(log.Address.Bytes())
		for _, topic := range log.Topics {
			bloom.Add(topic.Bytes())
		}

		ev := NewEvent(contract, pattern...)
		require.True(t, ev.Match(log))
		require.True(t, ev.MaybeIn(bloom), "false negative for pattern %s", ev)
	}
}
