package engine

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/statecraft/internal/entropy"
	"github.com/talgya/statecraft/internal/world"
)

// pushNews stamps a and puts it at the front of the rolling window.
func (e *Engine) pushNews(s *world.GameState, a world.NewsArticle) {
	a.ID = uuid.NewString()
	a.Turn = s.Turn
	s.News = slices.Insert(s.News, 0, a)
	if len(s.News) > world.MaxNews {
		s.News = s.News[:world.MaxNews]
	}
}

// pickLeaning draws an outlet slant: 40% conservative, 40% liberal, 20%
// neutral.
func (e *Engine) pickLeaning() world.Leaning {
	switch r := e.src.Float64(); {
	case r < 0.4:
		return world.LeaningConservative
	case r < 0.8:
		return world.LeaningLiberal
	}
	return world.LeaningNeutral
}

// lawNews writes the press reaction to a vote on lawName.
func (e *Engine) lawNews(s *world.GameState, lawName string, passed bool) {
	leaning := e.pickLeaning()
	tmpl := entropy.Pick(e.src, e.cat.NewsTemplates(passed, leaning))
	fill := strings.NewReplacer("{law}", lawName)
	e.pushNews(s, world.NewsArticle{
		Outlet:   entropy.Pick(e.src, e.cat.Outlets[leaning]),
		Leaning:  leaning,
		Headline: fill.Replace(tmpl.Headline),
		Body:     fill.Replace(tmpl.Body),
	})
}
