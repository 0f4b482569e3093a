package web

import (
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"starquest/internal/chronicle"
	"starquest/internal/game"
	"starquest/internal/session"
)

const (
	cookieName = "starquest_sid"
	maxNameLen = 64
)

// Server serves the game over HTTP. It renders the engine's scene
// payloads and translates form posts back into intents; all game rules
// live in the engine.
type Server struct {
	Engine       *game.Engine
	Store        session.Store[*game.Session]
	Tmpl         *template.Template
	Log          *zap.Logger
	DefaultStory string
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/begin", s.handleBegin)
	mux.HandleFunc("/play", s.handlePlay)
	mux.HandleFunc("/fight", s.handleFight)
	mux.HandleFunc("/restart", s.handleRestart)
	mux.HandleFunc("/chronicle.pdf", s.handleChronicle)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/start", http.StatusFound)
}

// GET /start renders the landing screen: pick a name and an adventure.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	vm := StartViewModel{
		Adventures:   s.adventureOptions(),
		DefaultStory: s.defaultStoryID(),
	}
	s.render(w, "layout.html", map[string]any{"Start": vm})
}

// POST /begin creates a fresh session and enters the start node.
func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}

	storyID := r.FormValue("story_id")
	if s.Engine.Stories[storyID] == nil {
		storyID = s.defaultStoryID()
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if len(name) > maxNameLen {
		// Back off to a rune boundary so the cut never leaves a
		// partial UTF-8 sequence behind.
		cut := maxNameLen
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}

	sess, err := s.Engine.NewSession(storyID, name, nil)
	if err != nil {
		s.Log.Error("create session", zap.String("story", storyID), zap.Error(err))
		http.Error(w, "failed to start adventure", 500)
		return
	}
	if _, err := sess.Start(); err != nil {
		s.Log.Error("enter start node", zap.String("story", storyID), zap.Error(err))
		http.Error(w, err.Error(), 500)
		return
	}

	id := s.Store.NewID()
	if err := s.Store.Put(ctx, id, sess); err != nil {
		http.Error(w, "failed to save session", 500)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.Log.Info("session started",
		zap.String("story", storyID),
		zap.String("player", sess.Player.Name))
	s.renderGame(w, sess)
}

// POST /play applies a story option chosen by slot index. Out-of-range
// or disabled slots are handled by the engine as message no-ops.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}

	index := -1
	if v := r.FormValue("option"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			index = n
		}
	}

	if _, err := sess.SelectOption(index); err != nil {
		s.Log.Error("select option", zap.Int("index", index), zap.Error(err))
		http.Error(w, err.Error(), 500)
		return
	}
	s.renderGame(w, sess)
}

// POST /fight applies a combat action during a battle.
func (s *Server) handleFight(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}

	kind := game.ActionKind(r.FormValue("action"))
	if _, err := sess.SelectCombatAction(kind); err != nil {
		s.Log.Error("combat action", zap.String("kind", string(kind)), zap.Error(err))
		http.Error(w, err.Error(), 500)
		return
	}
	s.renderGame(w, sess)
}

// POST /restart drops the session and returns to the landing screen.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if id := s.sessionID(r); id != "" {
		_ = s.Store.Delete(r.Context(), id)
	}
	http.Redirect(w, r, "/start", http.StatusFound)
}

// GET /chronicle.pdf serves a printable mission log of the playthrough
// so far.
func (s *Server) handleChronicle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(r)
	if !ok {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	pdf, err := chronicle.Generate(sess)
	if err != nil {
		s.Log.Error("generate chronicle", zap.Error(err))
		http.Error(w, "failed to generate chronicle", 500)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="mission-log.pdf"`)
	_, _ = w.Write(pdf)
}

func (s *Server) renderGame(w http.ResponseWriter, sess *game.Session) {
	vm := makeGameViewModel(sess)
	s.render(w, "layout.html", map[string]any{"Game": vm})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.Tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.Log.Error("render template", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) loadSession(r *http.Request) (*game.Session, bool) {
	id := s.sessionID(r)
	if id == "" {
		return nil, false
	}
	sess, ok, err := s.Store.Get(r.Context(), id)
	if err != nil || !ok {
		return nil, false
	}
	return sess, true
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) adventureOptions() []AdventureOption {
	out := make([]AdventureOption, 0, len(s.Engine.Stories))
	for id, story := range s.Engine.Stories {
		name := story.Title
		if name == "" {
			name = strings.ToUpper(id[:1]) + id[1:]
		}
		out = append(out, AdventureOption{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) defaultStoryID() string {
	if s.Engine.Stories[s.DefaultStory] != nil {
		return s.DefaultStory
	}
	if s.Engine.Stories[game.DefaultStoryID] != nil {
		return game.DefaultStoryID
	}
	for _, opt := range s.adventureOptions() {
		return opt.ID
	}
	return game.DefaultStoryID
}
