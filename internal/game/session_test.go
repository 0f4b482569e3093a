package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStory() *Story {
	return &Story{
		ID:    "test",
		Title: "Test Adventure",
		Start: "camp",
		Nodes: map[string]*Node{
			"camp": {
				Caption: "Camp",
				Text:    "A quiet camp under two moons.",
				Options: []Option{
					{Text: "Visit the spring", Kind: KindStory, Next: "spring"},
					{Text: "Fight the frog", Kind: KindBattle, Next: "clearing",
						Enemy: &EnemySpec{Name: "Tusked Frog", Health: 50, Attack: 10, ExpReward: 25}},
					{Text: "Give up", Kind: KindEnd, Ending: "You sit down and wait."},
				},
			},
			"spring": {
				Caption: "Spring",
				Text:    "Cool water bubbles up between the stones.",
				Effect:  &Effect{Text: "You drink deep.", Heal: 20, Item: "ration", Count: 1},
				Options: []Option{
					{Text: "Back to camp", Kind: KindStory, Next: "camp"},
				},
			},
			"clearing": {
				Caption: "Clearing",
				Text:    "Beyond the frog's hollow the air is still.",
				Options: []Option{
					{Text: "Back to camp", Kind: KindStory, Next: "camp"},
				},
			},
		},
	}
}

func testEngine() *Engine {
	return NewEngine(map[string]*Story{"test": testStory()})
}

func newTestSession(t *testing.T, rolls ...int) *Session {
	t.Helper()
	var src Source
	if len(rolls) > 0 {
		src = &scriptSource{rolls: rolls}
	}
	sess, err := testEngine().NewSession("test", "Astronaut", src)
	require.NoError(t, err)
	return sess
}

func TestNewSession_UnknownStory(t *testing.T) {
	_, err := testEngine().NewSession("nope", "a", nil)
	assert.Error(t, err)
}

func TestStart(t *testing.T) {
	sess := newTestSession(t)
	sc, err := sess.Start()
	require.NoError(t, err)

	assert.Equal(t, "Camp", sc.Caption)
	assert.Contains(t, sc.Text, "two moons")
	for i := 0; i < MaxOptions; i++ {
		assert.True(t, sc.Options[i].Enabled, "slot %d", i)
	}
	assert.False(t, sc.GameOver)
	assert.Equal(t, []string{"camp"}, sess.Visited)
}

func TestSceneSlots_UnusedDisabled(t *testing.T) {
	sess := newTestSession(t)
	_, err := sess.Start()
	require.NoError(t, err)

	sc, err := sess.SelectOption(0) // spring has one option
	require.NoError(t, err)
	assert.True(t, sc.Options[0].Enabled)
	assert.False(t, sc.Options[1].Enabled)
	assert.False(t, sc.Options[2].Enabled)
	assert.Empty(t, sc.Options[1].Label)
}

func TestOneTimeEffect(t *testing.T) {
	sess := newTestSession(t)
	_, err := sess.Start()
	require.NoError(t, err)
	sess.Player.TakeDamage(30)

	sc, err := sess.SelectOption(0)
	require.NoError(t, err)
	assert.Contains(t, sc.Text, "You drink deep.")
	assert.Contains(t, sc.Text, "recovers 20 health")
	assert.Equal(t, 90, sess.Player.Health)
	assert.Equal(t, 1, sess.Player.Inventory["ration"])

	// Second visit: fixed message, no effect reapplied
	_, err = sess.SelectOption(0) // back to camp
	require.NoError(t, err)
	sc, err = sess.SelectOption(0) // spring again
	require.NoError(t, err)
	assert.Contains(t, sc.Text, "nothing new")
	assert.NotContains(t, sc.Text, "You drink deep.")
	assert.Equal(t, 90, sess.Player.Health)
	assert.Equal(t, 1, sess.Player.Inventory["ration"])
}

func TestSelectOption_DisabledSlot(t *testing.T) {
	sess := newTestSession(t)
	_, err := sess.Start()
	require.NoError(t, err)
	_, err = sess.SelectOption(0) // spring, one option
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 2, 99} {
		sc, err := sess.SelectOption(index)
		require.NoError(t, err)
		assert.Contains(t, sc.Text, "isn't available")
		assert.Equal(t, "spring", sess.NodeID, "index %d must not move", index)
	}
	// Transient messages never stick to the stored scene
	assert.NotContains(t, sess.Current().Text, "isn't available")
}

func TestEndOption(t *testing.T) {
	sess := newTestSession(t)
	_, err := sess.Start()
	require.NoError(t, err)

	sc, err := sess.SelectOption(2)
	require.NoError(t, err)
	assert.True(t, sc.GameOver)
	assert.Contains(t, sc.Text, "You sit down and wait.")
	for i := 0; i < MaxOptions; i++ {
		assert.False(t, sc.Options[i].Enabled)
	}
	assert.True(t, sess.Over())

	// Terminal: no further intent mutates anything
	level := sess.Player.Level
	sc, err = sess.SelectOption(0)
	require.NoError(t, err)
	assert.True(t, sc.GameOver)
	sc, err = sess.SelectCombatAction(ActionQuick)
	require.NoError(t, err)
	assert.True(t, sc.GameOver)
	assert.Equal(t, level, sess.Player.Level)
}

// End-to-end: Player(100/100, attack 20) vs Enemy(50/50, attack 10).
// Scripted rolls make each quick attack deal 25 and each enemy reply 7,
// so the frog drops on the second action and the reward lands.
func TestBattleFlow_Victory(t *testing.T) {
	sess := newTestSession(t, 10, 0)
	_, err := sess.Start()
	require.NoError(t, err)

	sc, err := sess.SelectOption(1)
	require.NoError(t, err)
	assert.True(t, sc.InBattle)
	assert.Equal(t, "Battle: Tusked Frog", sc.Caption)
	assert.Contains(t, sc.Text, "Astronaut vs Tusked Frog")

	// Story options are refused mid-battle
	sc, err = sess.SelectOption(0)
	require.NoError(t, err)
	assert.Contains(t, sc.Text, "Pick a combat action")
	assert.True(t, sess.InBattle())

	sc, err = sess.SelectCombatAction(ActionQuick) // 25 dmg, reply 7
	require.NoError(t, err)
	assert.True(t, sc.InBattle)
	assert.Contains(t, sc.Text, "for 25 damage")
	assert.Equal(t, 93, sess.Player.Health)

	sc, err = sess.SelectCombatAction(ActionQuick) // 25 dmg, frog down
	require.NoError(t, err)
	assert.False(t, sc.InBattle)
	assert.Equal(t, "Victory", sc.Caption)
	assert.Equal(t, "Continue", sc.Options[0].Label)
	assert.True(t, sc.Options[0].Enabled)
	assert.False(t, sc.Options[1].Enabled)

	// Reward: 25 exp -> level 2, full heal to the new max
	assert.Equal(t, 2, sess.Player.Level)
	assert.Equal(t, 110, sess.Player.Health)
	require.Len(t, sess.Battles, 1)
	assert.True(t, sess.Battles[0].Won)

	// Continue resumes at the battle's return node
	sc, err = sess.SelectOption(0)
	require.NoError(t, err)
	assert.Equal(t, "Clearing", sc.Caption)
	assert.False(t, sess.InBattle())
}

func TestBattleFlow_Defeat(t *testing.T) {
	sess := newTestSession(t, 0, 0)
	_, err := sess.Start()
	require.NoError(t, err)
	sess.Player.Health = 5

	_, err = sess.SelectOption(1)
	require.NoError(t, err)

	sc, err := sess.SelectCombatAction(ActionQuick) // 15 dmg, reply 7 kills
	require.NoError(t, err)
	assert.True(t, sc.GameOver)
	assert.Contains(t, sc.Text, "has fallen")
	assert.True(t, sess.Over())
	require.Len(t, sess.Battles, 1)
	assert.False(t, sess.Battles[0].Won)

	sc, err = sess.SelectCombatAction(ActionQuick)
	require.NoError(t, err)
	assert.True(t, sc.GameOver)
}

func TestCombatAction_OutsideBattle(t *testing.T) {
	sess := newTestSession(t)
	_, err := sess.Start()
	require.NoError(t, err)

	sc, err := sess.SelectCombatAction(ActionQuick)
	require.NoError(t, err)
	assert.Contains(t, sc.Text, "no battle underway")
	assert.Equal(t, "camp", sess.NodeID)
}

func TestEnterNode_Unknown(t *testing.T) {
	// A dangling battle return target is a content bug; it surfaces as
	// ErrUnknownNode when the Continue affordance fires. Built by hand
	// to bypass Validate, which would reject it at load time.
	story := testStory()
	story.Nodes["camp"].Options[1].Next = "nowhere"
	engine := NewEngine(map[string]*Story{"test": story})

	sess, err := engine.NewSession("test", "a", &scriptSource{rolls: []int{10, 0}})
	require.NoError(t, err)
	_, err = sess.Start()
	require.NoError(t, err)

	_, err = sess.SelectOption(1)
	require.NoError(t, err)
	_, err = sess.SelectCombatAction(ActionQuick)
	require.NoError(t, err)
	_, err = sess.SelectCombatAction(ActionQuick)
	require.NoError(t, err)

	_, err = sess.SelectOption(0) // Continue -> "nowhere"
	assert.ErrorIs(t, err, ErrUnknownNode)
}
