package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatwarden/warden/automod/avatar"
	"github.com/chatwarden/warden/automod/engine"
	"github.com/chatwarden/warden/automod/rulestore"
)

func testRuleSet() rulestore.RuleSet {
	return rulestore.RuleSet{
		FullNames:          []string{"Алина | Агент"},
		NameSubstrings:     []string{"заработок"},
		UsernameSubstrings: []string{"crypto"},
		Symbols:            []string{"💋"},
		Words:              []string{"казино"},
		Phrases:            []string{"хватит жить на мели"},
		Combinations:       [][]string{{"трейдинг", "инвестиции"}},
	}
}

type verdictCapture struct {
	eng      *engine.Engine
	executor *engine.CapturingExecutor
	notifier *engine.CapturingNotifier
}

func fixture(tier avatar.Tier) *verdictCapture {
	return fixtureRules(tier, testRuleSet())
}

func fixtureRules(tier avatar.Tier, rs rulestore.RuleSet) *verdictCapture {
	eng := engine.EngineTestFixture(DefaultRules(), rs)
	vc := &verdictCapture{
		eng:      eng,
		executor: &engine.CapturingExecutor{},
		notifier: &engine.CapturingNotifier{},
	}
	eng.Avatar = engine.FixedScorer{Tier: tier}
	eng.Executor = vc.executor
	eng.Notifiers = []engine.Notifier{vc.notifier}
	return vc
}

func event(first, last, username, text string) *engine.MessageEvent {
	return &engine.MessageEvent{
		Identity: engine.Identity{
			ID:        100,
			FirstName: first,
			LastName:  last,
			Username:  username,
		},
		ChatID:    -200,
		ChatTitle: "Test Chat",
		MessageID: 7,
		Text:      text,
	}
}

func TestBannedSymbolInName(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	evt := event("Алина АГЕНТ", "HUNTME 💋", "", "просто привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	verdict := vc.notifier.Sent[0]
	assert.Equal(engine.ActionBan, verdict.Action)
	require.Len(t, verdict.Reasons, 1)
	assert.Equal(engine.ReasonBannedSymbol, verdict.Reasons[0].Category)
	assert.Equal([]int{7}, vc.executor.Deleted)
	assert.Equal([]int64{100}, vc.executor.Banned)
}

func TestBannedSymbolWithVariationSelector(t *testing.T) {
	assert := assert.New(t)

	// configured symbol carries a variation selector, as pasted from a chat
	// client; the display name is matched with invisibles stripped, and the
	// rule value must collapse onto the same form
	rs := testRuleSet()
	rs.Symbols = []string{"💋️"}
	vc := fixtureRules(avatar.TierOK, rs)

	evt := event("Алина", "HUNTME 💋️", "", "просто привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ActionBan, vc.notifier.Sent[0].Action)
	assert.Equal(engine.ReasonBannedSymbol, vc.notifier.Sent[0].Reasons[0].Category)
}

func TestPhraseMatch(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	evt := event("Иван", "Иванов", "", "Хватит жить на мели! Начни зарабатывать")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	verdict := vc.notifier.Sent[0]
	assert.Equal(engine.ActionBan, verdict.Action)
	require.Len(t, verdict.Reasons, 1)
	assert.Equal(engine.ReasonPhrase, verdict.Reasons[0].Category)
	assert.Equal("хватит жить на мели", verdict.Reasons[0].Value)
}

func TestCleanMessageAllowed(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	evt := event("Иван", "Иванов", "ivan", "просто привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	assert.Empty(vc.notifier.Sent)
	assert.Empty(vc.executor.Deleted)
	assert.Empty(vc.executor.Banned)
}

func TestHardAvatarBansEmptyMessage(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierHard)

	evt := event("Иван", "", "", "")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	verdict := vc.notifier.Sent[0]
	assert.Equal(engine.ActionBan, verdict.Action)
	require.Len(t, verdict.Reasons, 1)
	assert.Equal(engine.ReasonAvatarNSFW, verdict.Reasons[0].Category)
	assert.Equal([]int64{100}, vc.executor.Banned)
}

func TestSoftAvatarWarnsWithoutDeleting(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierSoft)

	evt := event("Иван", "Иванов", "", "просто привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	verdict := vc.notifier.Sent[0]
	assert.Equal(engine.ActionWarn, verdict.Action)
	require.Len(t, verdict.Reasons, 1)
	assert.Equal(engine.ReasonAvatarSuspect, verdict.Reasons[0].Category)
	assert.Empty(vc.executor.Deleted)
	assert.Empty(vc.executor.Banned)
}

func TestSoftAvatarDoesNotDowngradeTextBan(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierSoft)

	evt := event("Иван", "Иванов", "", "казино ждет тебя")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ActionBan, vc.notifier.Sent[0].Action)
	assert.Equal(engine.ReasonBannedWord, vc.notifier.Sent[0].Reasons[0].Category)
}

func TestWordCombination(t *testing.T) {
	assert := assert.New(t)

	// both words present, any order and inflection
	vc := fixture(avatar.TierOK)
	evt := event("Иван", "", "", "инвестиции и трейдинг без риска")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))
	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ActionBan, vc.notifier.Sent[0].Action)
	assert.Equal(engine.ReasonWordCombination, vc.notifier.Sent[0].Reasons[0].Category)

	// only one word present: no match
	vc = fixture(avatar.TierOK)
	evt = event("Иван", "", "", "трейдинг это скучно")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))
	assert.Empty(vc.notifier.Sent)
}

func TestFullNameMatch(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	// rule values use the same "first | last" derivation; inflection and
	// case differences collapse in the canonical comparison
	evt := event("АЛИНА", "агент", "", "привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ReasonFullName, vc.notifier.Sent[0].Reasons[0].Category)
	assert.Equal("Алина | Агент", vc.notifier.Sent[0].Reasons[0].Value)
}

func TestUsernameSubstring(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	evt := event("Иван", "", "best_crypto_signals", "привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ReasonUsernameSubstring, vc.notifier.Sent[0].Reasons[0].Category)
}

func TestNameSubstring(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	// confusable digits in the display name still match
	evt := event("Быстрый ЗАРАБ0ТОК", "", "", "привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ReasonNameSubstring, vc.notifier.Sent[0].Reasons[0].Category)
}

func TestEvaluationOrderDeterministic(t *testing.T) {
	assert := assert.New(t)

	// name substring (rule 3) and phrase (rule 8) both match; the earlier
	// rule must win, and repeatedly
	for i := 0; i < 3; i++ {
		vc := fixture(avatar.TierOK)
		evt := event("заработок мечты", "", "", "хватит жить на мели")
		require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))
		require.Len(t, vc.notifier.Sent, 1)
		assert.Equal(engine.ReasonNameSubstring, vc.notifier.Sent[0].Reasons[0].Category)
	}
}

func TestBanMarker(t *testing.T) {
	assert := assert.New(t)
	vc := fixture(avatar.TierOK)

	evt := event("Ваня "+engine.DefaultBanMarker, "", "", "привет")
	require.NoError(t, vc.eng.ProcessMessage(context.Background(), evt))

	require.Len(t, vc.notifier.Sent, 1)
	assert.Equal(engine.ReasonBanMarker, vc.notifier.Sent[0].Reasons[0].Category)
}
