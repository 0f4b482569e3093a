package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultStoryID is the story served when none is chosen.
const DefaultStoryID = "crash_site"

// MaxOptions is the fixed number of option slots a node (and therefore
// a scene) can carry.
const MaxOptions = 3

// ErrUnknownNode reports a reference to a node id absent from the
// story graph. This is a content-authoring bug and is fatal to the
// session; it is never recovered into a user-facing message.
var ErrUnknownNode = errors.New("unknown story node")

// OptionKind tags which payload an Option carries.
type OptionKind string

const (
	KindStory  OptionKind = "story"
	KindBattle OptionKind = "battle"
	KindEnd    OptionKind = "end"
)

// Story is a complete adventure: an id-keyed arena of nodes plus the
// designated entry node. Node-to-node references are ids looked up in
// the arena, so authored cycles cannot create ownership problems.
type Story struct {
	ID    string           `yaml:"-"`
	Title string           `yaml:"title"`
	Start string           `yaml:"start"`
	Nodes map[string]*Node `yaml:"nodes"`
}

// Node is a single narrative beat: a caption for the presentation
// layer, the narration text, an optional one-time effect, and up to
// three options. Nodes are static authored data, never mutated.
type Node struct {
	Caption string   `yaml:"caption"`
	Text    string   `yaml:"text"`
	Effect  *Effect  `yaml:"effect"`
	Options []Option `yaml:"options"`
}

// Effect is a node's one-time passive outcome, applied on the first
// visit only. Fields combine: an effect may narrate, heal, grant items,
// and award experience at once.
type Effect struct {
	Text  string `yaml:"text"`
	Heal  int    `yaml:"heal"`
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
	Exp   int    `yaml:"exp"`
}

// Option is one player-facing choice. Kind selects exactly one payload
// shape, enforced by Validate at load time:
//
//	story  -> Next (the node to move to)
//	battle -> Enemy (spec to spawn) + Next (the node to resume at after victory)
//	end    -> Ending (terminal narration)
type Option struct {
	Text   string     `yaml:"text"`
	Kind   OptionKind `yaml:"kind"`
	Next   string     `yaml:"next"`
	Enemy  *EnemySpec `yaml:"enemy"`
	Ending string     `yaml:"ending"`
}

// LoadStory loads and validates a single story YAML file. The story id
// is the file name without extension.
func LoadStory(path string) (*Story, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path is cleaned and validated
	if err != nil {
		return nil, err
	}
	var s Story
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cleanPath, err)
	}
	s.ID = strings.TrimSuffix(filepath.Base(cleanPath), filepath.Ext(cleanPath))
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("story %s: %w", s.ID, err)
	}
	return &s, nil
}

// LoadStories loads every *.yaml under dir, keyed by story id.
func LoadStories(dir string) (map[string]*Story, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no stories found in %s", dir)
	}
	stories := make(map[string]*Story, len(paths))
	for _, p := range paths {
		s, err := LoadStory(p)
		if err != nil {
			return nil, err
		}
		stories[s.ID] = s
	}
	return stories, nil
}

// Validate checks the content invariants: the start node exists, every
// node carries 1..3 options, every referenced node id resolves, and
// every option populates exactly the payload its kind requires.
// Violations are authoring bugs and abort loading.
func (s *Story) Validate() error {
	if s.Start == "" {
		return errors.New("start node not set")
	}
	if _, ok := s.Nodes[s.Start]; !ok {
		return fmt.Errorf("start: %w: %q", ErrUnknownNode, s.Start)
	}
	for id, n := range s.Nodes {
		if n == nil {
			return fmt.Errorf("node %q: empty", id)
		}
		if len(n.Options) == 0 || len(n.Options) > MaxOptions {
			return fmt.Errorf("node %q: needs 1..%d options, has %d", id, MaxOptions, len(n.Options))
		}
		for i, opt := range n.Options {
			if err := s.validateOption(opt); err != nil {
				return fmt.Errorf("node %q option %d: %w", id, i, err)
			}
		}
	}
	return nil
}

func (s *Story) validateOption(opt Option) error {
	if opt.Text == "" {
		return errors.New("missing text")
	}
	switch opt.Kind {
	case KindStory:
		if opt.Enemy != nil || opt.Ending != "" {
			return errors.New("story option must carry only a next node")
		}
		return s.checkTarget(opt.Next)
	case KindBattle:
		if opt.Ending != "" {
			return errors.New("battle option must not carry an ending")
		}
		if opt.Enemy == nil {
			return errors.New("battle option missing enemy")
		}
		if opt.Enemy.Name == "" || opt.Enemy.Health <= 0 || opt.Enemy.Attack <= 0 {
			return fmt.Errorf("bad enemy spec %+v", *opt.Enemy)
		}
		return s.checkTarget(opt.Next)
	case KindEnd:
		if opt.Next != "" || opt.Enemy != nil {
			return errors.New("end option must carry only an ending")
		}
		if opt.Ending == "" {
			return errors.New("end option missing ending text")
		}
		return nil
	default:
		return fmt.Errorf("unknown option kind %q", opt.Kind)
	}
}

func (s *Story) checkTarget(id string) error {
	if id == "" {
		return errors.New("missing next node")
	}
	if _, ok := s.Nodes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return nil
}
