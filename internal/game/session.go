package game

import (
	"fmt"
	"strings"
	"time"
)

// Engine holds the immutable story content shared by every session.
type Engine struct {
	Stories map[string]*Story
}

// NewEngine wraps loaded stories for session creation.
func NewEngine(stories map[string]*Story) *Engine {
	return &Engine{Stories: stories}
}

// NewSession starts a playthrough of the given story with a fresh
// player. A nil src gets a time-seeded one; tests pass their own.
func (e *Engine) NewSession(storyID, playerName string, src Source) (*Session, error) {
	st := e.Stories[storyID]
	if st == nil {
		return nil, fmt.Errorf("unknown story %q", storyID)
	}
	if src == nil {
		src = NewSource(time.Now().UnixNano())
	}
	return &Session{
		story:  st,
		rng:    src,
		Player: NewPlayer(playerName),
		seen:   map[string]bool{},
	}, nil
}

// BattleRecord remembers one finished battle for the mission log.
type BattleRecord struct {
	Enemy string
	Won   bool
}

// Session is one playthrough: the player, their position in the story
// graph, the one-time effect flags, and the active battle if any. It is
// strictly turn-based; callers feed it one intent at a time and render
// the scene it returns before the next. One-time flags live here, not
// in package state, so concurrent sessions never interfere.
type Session struct {
	story   *Story
	rng     Source
	Player  *Player
	NodeID  string
	Visited []string
	Battles []BattleRecord

	seen     map[string]bool
	battle   *Battle
	over     bool
	epilogue string
	scene    Scene
}

// Story returns the immutable story this session plays.
func (s *Session) Story() *Story { return s.story }

// Over reports whether the session reached a terminal state.
func (s *Session) Over() bool { return s.over }

// InBattle reports whether a battle is currently accepting actions.
func (s *Session) InBattle() bool {
	return s.battle != nil && s.battle.State == BattleAwaitingAction
}

// Current returns the most recently emitted scene unchanged.
func (s *Session) Current() Scene { return s.scene }

// Start enters the story's start node and returns the opening scene.
func (s *Session) Start() (Scene, error) {
	return s.enterNode(s.story.Start)
}

// SelectOption handles a choice by slot index. Indexes that do not hit
// an enabled slot in the current scene re-render it with a message and
// change nothing. After a won battle, slot 0 is the Continue affordance
// that resumes the story at the battle's recorded return node.
func (s *Session) SelectOption(index int) (Scene, error) {
	if s.over {
		return s.withMessage("The adventure is over."), nil
	}
	if s.battle != nil {
		if s.battle.State == BattleWon && index == 0 {
			next := s.battle.ReturnTo
			s.battle = nil
			return s.enterNode(next)
		}
		if s.battle.State == BattleAwaitingAction {
			return s.withMessage("Pick a combat action."), nil
		}
		return s.withMessage("That choice isn't available."), nil
	}

	node := s.story.Nodes[s.NodeID]
	if node == nil {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownNode, s.NodeID)
	}
	if index < 0 || index >= len(node.Options) {
		return s.withMessage("That choice isn't available."), nil
	}

	opt := node.Options[index]
	switch opt.Kind {
	case KindStory:
		return s.enterNode(opt.Next)
	case KindBattle:
		s.battle = NewBattle(s.Player.Name, opt.Enemy.Spawn(), opt.Next)
		return s.emit(s.battleScene()), nil
	case KindEnd:
		s.over = true
		s.epilogue = opt.Ending
		return s.emit(Scene{Caption: "The End", Text: opt.Ending, GameOver: true}), nil
	default:
		// Unreachable for validated content.
		return Scene{}, fmt.Errorf("node %q option %d: unknown kind %q", s.NodeID, index, opt.Kind)
	}
}

// SelectCombatAction feeds one combat intent into the active battle.
// The enemy's reply resolves synchronously, so the returned scene is
// already the next input-wait point (or a terminal payload). Outside of
// combat this is a message no-op.
func (s *Session) SelectCombatAction(kind ActionKind) (Scene, error) {
	if s.over {
		return s.withMessage("The adventure is over."), nil
	}
	if s.battle == nil {
		return s.withMessage("There is no battle underway."), nil
	}
	if s.battle.State != BattleAwaitingAction {
		return s.withMessage("The battle is already decided."), nil
	}

	enemyName := s.battle.Enemy.Name
	s.battle.Resolve(s.Player, kind, s.rng)

	switch s.battle.State {
	case BattleWon:
		s.Battles = append(s.Battles, BattleRecord{Enemy: enemyName, Won: true})
	case BattleLost:
		s.Battles = append(s.Battles, BattleRecord{Enemy: enemyName, Won: false})
		s.over = true
		s.epilogue = strings.Join(s.battle.Log, "\n")
	}
	sc := s.battleScene()
	if s.over {
		s.battle = nil
	}
	return s.emit(sc), nil
}

// enterNode moves to a node and applies its one-time effect if this is
// the first visit of the session. A missing id is a content bug and
// aborts; it is not turned into a user-facing message.
func (s *Session) enterNode(id string) (Scene, error) {
	node, ok := s.story.Nodes[id]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	s.NodeID = id
	s.Visited = append(s.Visited, id)

	lines := []string{node.Text}
	if node.Effect != nil {
		if s.seen[id] {
			lines = append(lines, "There is nothing new here.")
		} else {
			s.seen[id] = true
			lines = append(lines, s.applyEffect(node.Effect)...)
		}
	}

	sc := Scene{Caption: node.Caption, Text: strings.Join(lines, "\n")}
	for i := 0; i < len(node.Options) && i < MaxOptions; i++ {
		sc.Options[i] = OptionSlot{Label: node.Options[i].Text, Enabled: true}
	}
	return s.emit(sc), nil
}

func (s *Session) applyEffect(ef *Effect) []string {
	var lines []string
	if ef.Text != "" {
		lines = append(lines, ef.Text)
	}
	if ef.Heal > 0 {
		restored := s.Player.Heal(ef.Heal)
		lines = append(lines, fmt.Sprintf("%s recovers %d health.", s.Player.Name, restored))
	}
	if ef.Item != "" {
		count := ef.Count
		if count <= 0 {
			count = 1
		}
		s.Player.AddItem(ef.Item, count)
		lines = append(lines, fmt.Sprintf("%s picks up %d x %s.", s.Player.Name, count, ef.Item))
	}
	if ef.Exp > 0 {
		lines = append(lines, s.Player.AddExperience(ef.Exp)...)
	}
	return lines
}

func (s *Session) battleScene() Scene {
	b := s.battle
	text := strings.Join(b.Log, "\n")
	switch b.State {
	case BattleWon:
		sc := Scene{Caption: "Victory", Text: text}
		sc.Options[0] = OptionSlot{Label: "Continue", Enabled: true}
		return sc
	case BattleLost:
		return Scene{Caption: "Game Over", Text: text, GameOver: true}
	default:
		return Scene{
			Caption:  fmt.Sprintf("Battle: %s", b.Enemy.Name),
			Text:     text,
			InBattle: true,
		}
	}
}

// emit records the scene as the session's current one.
func (s *Session) emit(sc Scene) Scene {
	s.scene = sc
	return sc
}

// withMessage re-renders the current scene with a transient message
// appended. The stored scene is untouched so messages never stack.
func (s *Session) withMessage(msg string) Scene {
	sc := s.scene
	sc.Text = sc.Text + "\n" + msg
	return sc
}
