package game

// Character holds the attributes shared by every combatant, player or
// enemy. Health always stays within [0, MaxHealth]; out-of-range inputs
// are clamped, never rejected.
type Character struct {
	Name      string
	Health    int
	MaxHealth int
	Attack    int
}

// TakeDamage subtracts amount from health, flooring at zero. Negative
// amounts count as zero. Returns the health actually lost so narration
// reports the real effect, not the raw input.
func (c *Character) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > c.Health {
		amount = c.Health
	}
	c.Health -= amount
	return amount
}

// Heal adds amount to health, capped at MaxHealth. Negative amounts
// count as zero. Returns the health actually restored, which may be
// less than requested near the cap.
func (c *Character) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > c.MaxHealth-c.Health {
		amount = c.MaxHealth - c.Health
	}
	c.Health += amount
	return amount
}

// IsAlive reports whether the character can still act.
func (c *Character) IsAlive() bool {
	return c.Health > 0
}
