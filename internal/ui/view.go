package ui

import (
	"html/template"

	"github.com/varsilias/portfolio-relay/internal/profile"
)

type projectView struct {
	Title        string
	Description  template.HTML
	Technologies []string
	RepoURL      string
	LiveURL      string
}

type focusView struct {
	Title       string
	Description template.HTML
}

type pageView struct {
	Profile    *profile.Profile
	FirstName  string
	About      template.HTML
	FocusAreas []focusView
	Projects   []projectView
}

func (u *UI) buildPage(p *profile.Profile) pageView {
	v := pageView{
		Profile:   p,
		FirstName: p.FirstName(),
		About:     u.mdHTML(p.About),
	}
	for _, f := range p.FocusAreas {
		v.FocusAreas = append(v.FocusAreas, focusView{Title: f.Title, Description: u.mdHTML(f.Description)})
	}
	for _, pr := range p.Projects {
		v.Projects = append(v.Projects, projectView{
			Title:        pr.Title,
			Description:  u.mdHTML(pr.Description),
			Technologies: pr.Technologies,
			RepoURL:      pr.RepoURL,
			LiveURL:      pr.LiveURL,
		})
	}
	return v
}
