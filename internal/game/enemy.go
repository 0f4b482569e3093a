package game

// EnemySpec describes an enemy as plain authored data: the stats to
// spawn it with and the experience it is worth. A data descriptor
// instead of a factory callback keeps battle options serializable and
// testable without hidden logic.
type EnemySpec struct {
	Name      string `yaml:"name"`
	Health    int    `yaml:"health"`
	Attack    int    `yaml:"attack"`
	ExpReward int    `yaml:"exp"`
}

// Spawn creates a fresh enemy instance for one battle. Every battle
// fights its own copy; the spec itself is never mutated.
func (s EnemySpec) Spawn() *Enemy {
	return &Enemy{
		Character: Character{
			Name:      s.Name,
			Health:    s.Health,
			MaxHealth: s.Health,
			Attack:    s.Attack,
		},
		ExpReward: s.ExpReward,
	}
}

// Enemy is a transient combatant owned by a single battle and discarded
// when the battle ends.
type Enemy struct {
	Character
	ExpReward int
}
