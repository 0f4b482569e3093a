package web

import (
	"sort"

	"starquest/internal/game"
)

// StartViewModel carries data for the landing screen.
type StartViewModel struct {
	Adventures   []AdventureOption
	DefaultStory string
}

// AdventureOption is one selectable story on the landing screen.
type AdventureOption struct {
	ID   string
	Name string
}

// ItemCount is one inventory row for the status bar.
type ItemCount struct {
	Name  string
	Count int
}

// GameViewModel carries one scene plus the status-bar data.
type GameViewModel struct {
	StoryTitle string
	Scene      game.Scene
	Player     *game.Player
	Items      []ItemCount
	ExpToNext  int
	InBattle   bool
	GameOver   bool
}

func makeGameViewModel(sess *game.Session) GameViewModel {
	p := sess.Player
	items := make([]ItemCount, 0, len(p.Inventory))
	for name, count := range p.Inventory {
		if count > 0 {
			items = append(items, ItemCount{Name: name, Count: count})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	sc := sess.Current()
	return GameViewModel{
		StoryTitle: sess.Story().Title,
		Scene:      sc,
		Player:     p,
		Items:      items,
		ExpToNext:  p.ExpToNextLevel(),
		InBattle:   sc.InBattle,
		GameOver:   sc.GameOver,
	}
}
