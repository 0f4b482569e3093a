package game

import (
	"fmt"
	"math/rand"
)

// Source is the battle's randomness seam. math/rand satisfies it; tests
// swap in scripted sources so every exchange is deterministic.
type Source interface {
	Intn(n int) int
}

// NewSource returns a math/rand backed Source with the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// ActionKind is a combat intent from the presentation layer.
type ActionKind string

const (
	ActionQuick      ActionKind = "quick"
	ActionHeavy      ActionKind = "heavy"
	ActionConsumable ActionKind = "consumable"
)

// BattleState tracks where a battle is in its turn cycle. The enemy's
// reply runs synchronously inside Resolve, so from the caller's side
// the cycle is AwaitingAction -> (AwaitingAction | Won | Lost).
type BattleState int

const (
	BattleAwaitingAction BattleState = iota
	BattleWon
	BattleLost
)

// Damage tuning. Quick hits spread +-5 around attack, heavy hits spread
// +-5 around the truncated 1.5x attack and land 6 times in 10, enemy
// hits spread +-3 around the enemy's attack.
const (
	quickSpread    = 5
	heavySpread    = 5
	enemySpread    = 3
	heavyHitChance = 6 // in 10
)

// Battle is one combat session against a single enemy instance. It owns
// the enemy and the running narration log; the player is borrowed from
// the session for the battle's duration.
type Battle struct {
	Enemy    *Enemy
	ReturnTo string // node the story resumes at after victory
	State    BattleState
	Log      []string
}

// NewBattle opens a battle in the awaiting-action state.
func NewBattle(playerName string, enemy *Enemy, returnTo string) *Battle {
	return &Battle{
		Enemy:    enemy,
		ReturnTo: returnTo,
		State:    BattleAwaitingAction,
		Log:      []string{fmt.Sprintf("--- %s vs %s ---", playerName, enemy.Name)},
	}
}

// Resolve consumes one player action and, if the enemy survives it,
// runs the enemy's counterattack before returning. Unrecognized actions
// waste the turn. Once either side is down no further input is
// accepted; calls after a terminal state are no-ops.
func (b *Battle) Resolve(p *Player, action ActionKind, src Source) {
	if b.State != BattleAwaitingAction || b.Enemy == nil {
		return
	}
	if !p.IsAlive() || !b.Enemy.IsAlive() {
		return
	}

	switch action {
	case ActionQuick:
		dmg := b.Enemy.TakeDamage(rollRange(src, p.Attack-quickSpread, p.Attack+quickSpread))
		b.logf("%s attacks %s for %d damage!", p.Name, b.Enemy.Name, dmg)
	case ActionHeavy:
		if src.Intn(10) < heavyHitChance {
			// Truncate the 1.5x multiplier before the range is built.
			heavy := p.Attack * 3 / 2
			dmg := b.Enemy.TakeDamage(rollRange(src, heavy-heavySpread, heavy+heavySpread))
			b.logf("%s lands a heavy blow on %s for %d damage!", p.Name, b.Enemy.Name, dmg)
		} else {
			b.logf("%s winds up a heavy blow, but %s dodges!", p.Name, b.Enemy.Name)
		}
	case ActionConsumable:
		b.log(p.UseConsumable(StartingItem))
	default:
		b.logf("%s hesitates and loses the turn.", p.Name)
	}

	if !b.Enemy.IsAlive() {
		b.logf("%s has been defeated! %s wins!", b.Enemy.Name, p.Name)
		b.Log = append(b.Log, p.AddExperience(b.Enemy.ExpReward)...)
		b.Enemy = nil // discarded; each battle spawns its own
		b.State = BattleWon
		return
	}

	dmg := p.TakeDamage(rollRange(src, b.Enemy.Attack-enemySpread, b.Enemy.Attack+enemySpread))
	b.logf("%s strikes back at %s for %d damage!", b.Enemy.Name, p.Name, dmg)
	if !p.IsAlive() {
		b.logf("%s has fallen. The adventure ends here.", p.Name)
		b.State = BattleLost
		return
	}
	b.logf("What will %s do next?", p.Name)
}

func (b *Battle) log(line string) {
	b.Log = append(b.Log, line)
}

func (b *Battle) logf(format string, args ...any) {
	b.Log = append(b.Log, fmt.Sprintf(format, args...))
}

// rollRange draws a uniform integer in [lo, hi] inclusive.
func rollRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}
