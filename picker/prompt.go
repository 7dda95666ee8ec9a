package picker

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

type askFunc func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// Prompt picks a clip with an interactive terminal select.
type Prompt struct {
	library *Library
	ask     askFunc
}

// NewPrompt returns a Prompt browsing library.
func NewPrompt(library *Library) *Prompt {
	return &Prompt{library: library, ask: survey.AskOne}
}

// RequestPermission defers to the library.
func (p *Prompt) RequestPermission(ctx context.Context) (Permission, error) {
	return p.library.RequestPermission(ctx)
}

// Pick lists the library and asks the user for one clip. An interrupt
// (ctrl+c, esc) cancels the pick.
func (p *Prompt) Pick(ctx context.Context) (Result, error) {
	videos, err := p.library.Videos(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(videos) == 0 {
		return Result{}, ErrNoVideos
	}

	options := lo.Map(videos, func(path string, _ int) string {
		if rel, err := filepath.Rel(p.library.Root, path); err == nil {
			return rel
		}
		return path
	})
	byOption := lo.SliceToMap(lo.Zip2(options, videos), func(t lo.Tuple2[string, string]) (string, string) {
		return t.A, t.B
	})

	prompt := &survey.Select{
		Message:  "Pick a clip",
		Options:  options,
		PageSize: 15,
		Filter: func(filter, value string, _ int) bool {
			return fuzzy.MatchFold(filter, value)
		},
	}

	var answer string
	if err := p.ask(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return Canceled(), nil
		}
		return Result{}, err
	}

	path, ok := byOption[answer]
	if !ok {
		return Canceled(), nil
	}
	return Picked(path), nil
}
