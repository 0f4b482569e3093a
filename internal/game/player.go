package game

import "fmt"

// Starting stats and per-level growth for the player.
const (
	startHealth = 100
	startAttack = 20

	levelHealthBonus = 10
	levelAttackBonus = 2
)

// StartingItem is the consumable every new player carries one of.
const StartingItem = "medkit"

// consumableHeal maps item names to the health they restore when used.
// Items not listed here can be carried but have no use effect.
var consumableHeal = map[string]int{
	"medkit": 30,
	"ration": 15,
}

// Player is the session-long protagonist. It lives for the whole
// playthrough; battles and story effects mutate it in place.
type Player struct {
	Character
	Level       int
	Experience  int
	SkillPoints int
	Inventory   map[string]int
}

// NewPlayer creates a level-1 player with fixed starting stats and one
// starting consumable.
func NewPlayer(name string) *Player {
	if name == "" {
		name = "Astronaut"
	}
	return &Player{
		Character: Character{
			Name:      name,
			Health:    startHealth,
			MaxHealth: startHealth,
			Attack:    startAttack,
		},
		Level:     1,
		Inventory: map[string]int{StartingItem: 1},
	}
}

// ExpToNextLevel returns the experience needed to reach the next level
// from the current one. It must be recomputed on every check: the level
// moves while AddExperience is resolving, so the threshold moves too.
func (p *Player) ExpToNextLevel() int {
	return 20 + (p.Level-1)*10
}

// AddExperience awards experience and resolves every level-up it funds.
// One large award can carry the player through several levels; each
// level raises max health by 10 (with a full heal), attack by 2, and
// grants a skill point. Returns narration lines in chronological order:
// one for the award, then one per level gained.
func (p *Player) AddExperience(amount int) []string {
	if amount < 0 {
		amount = 0
	}
	p.Experience += amount
	lines := []string{fmt.Sprintf("%s gains %d experience.", p.Name, amount)}
	for p.Experience >= p.ExpToNextLevel() {
		p.Experience -= p.ExpToNextLevel()
		p.Level++
		p.SkillPoints++
		p.MaxHealth += levelHealthBonus
		p.Health = p.MaxHealth
		p.Attack += levelAttackBonus
		lines = append(lines, fmt.Sprintf(
			"%s reaches level %d! Max health %d, attack %d.",
			p.Name, p.Level, p.MaxHealth, p.Attack))
	}
	return lines
}

// AddItem puts count copies of an item into the inventory.
func (p *Player) AddItem(name string, count int) {
	if count <= 0 {
		return
	}
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	p.Inventory[name] += count
}

// UseConsumable spends one item, if any are left, and applies its
// effect. Running out is an expected condition reported in the returned
// message, not a failure; nothing changes in that case.
func (p *Player) UseConsumable(name string) string {
	if p.Inventory[name] <= 0 {
		return fmt.Sprintf("%s rummages for a %s, but there are none left.", p.Name, name)
	}
	heal, ok := consumableHeal[name]
	if !ok {
		return fmt.Sprintf("The %s has no obvious use here.", name)
	}
	p.Inventory[name]--
	restored := p.Heal(heal)
	return fmt.Sprintf("%s uses a %s and recovers %d health.", p.Name, name, restored)
}
