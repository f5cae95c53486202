package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// previewModel renders the current note as styled markdown in a
// scrollable viewport. The renderer is rebuilt on resize because word
// wrap is fixed at construction time.
type previewModel struct {
	vp       viewport.Model
	style    string
	renderer *glamour.TermRenderer

	content string // last raw markdown rendered
	width   int
}

func newPreviewModel(style string) *previewModel {
	return &previewModel{
		vp:    viewport.New(0, 0),
		style: style,
	}
}

func (p *previewModel) SetSize(width, height int) error {
	p.vp.Width = width
	p.vp.Height = height
	if width == p.width && p.renderer != nil {
		return nil
	}
	p.width = width

	wrap := width - 2
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(wrap),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return fmt.Errorf("init markdown renderer: %w", err)
	}
	p.renderer = r
	return p.Render(p.content)
}

// Render re-renders the markdown and resets scroll only when the
// content actually changed.
func (p *previewModel) Render(markdown string) error {
	changed := markdown != p.content
	p.content = markdown
	if p.renderer == nil {
		return nil
	}
	out, err := p.renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	p.vp.SetContent(out)
	if changed {
		p.vp.GotoTop()
	}
	return nil
}

func (p *previewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p *previewModel) View() string {
	return p.vp.View()
}
