package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/lecteur/internal/content"
)

// delfLevels is the order levels are listed in
var delfLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// homeView lists the modules grouped by DELF level
type homeView struct {
	app     *Application
	content fyne.CanvasObject
}

func newHomeView(a *Application) *homeView {
	v := &homeView{app: a}
	v.content = v.build()
	return v
}

func (v *homeView) build() fyne.CanvasObject {
	catalog := v.app.services.Catalog

	title := widget.NewLabelWithStyle("Modules", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	box := container.NewVBox(title)

	inModule := make(map[string]bool)
	for _, level := range levelsOf(catalog.Modules()) {
		accordion := widget.NewAccordion()
		for _, m := range catalog.Modules() {
			if m.DelfLevel != level {
				continue
			}
			articles := catalog.ModuleArticles(m)
			for _, art := range articles {
				inModule[art.ID] = true
			}
			accordion.Append(widget.NewAccordionItem(moduleTitle(m, len(articles)), v.articleList(m.Description, articles)))
		}

		heading := widget.NewLabelWithStyle("DELF "+level, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		box.Add(widget.NewSeparator())
		box.Add(heading)
		box.Add(accordion)
	}

	var others []content.Article
	for _, art := range catalog.Articles() {
		if !inModule[art.ID] {
			others = append(others, art)
		}
	}
	if len(others) > 0 {
		box.Add(widget.NewSeparator())
		box.Add(widget.NewAccordion(widget.NewAccordionItem("Other articles", v.articleList("", others))))
	}

	return container.NewVScroll(box)
}

func (v *homeView) articleList(description string, articles []content.Article) fyne.CanvasObject {
	list := container.NewVBox()
	if description != "" {
		desc := widget.NewLabel(description)
		desc.Wrapping = fyne.TextWrapWord
		list.Add(desc)
	}
	if len(articles) == 0 {
		list.Add(widget.NewLabel("No articles yet"))
	}
	for _, art := range articles {
		id := art.ID
		btn := widget.NewButtonWithIcon(articleTitle(art), theme.DocumentIcon(), func() {
			v.app.openArticle(id)
		})
		btn.Alignment = widget.ButtonAlignLeading
		list.Add(btn)
	}
	return list
}

func (v *homeView) Content() fyne.CanvasObject {
	return v.content
}

func (v *homeView) HandleKey(fyne.KeyName) bool {
	return false
}

func (v *homeView) Close() {}

// levelsOf returns the DELF levels used by modules, known levels first
func levelsOf(modules []content.Module) []string {
	used := make(map[string]bool)
	for _, m := range modules {
		used[m.DelfLevel] = true
	}

	var levels []string
	for _, l := range delfLevels {
		if used[l] {
			levels = append(levels, l)
			delete(used, l)
		}
	}
	for _, m := range modules {
		if used[m.DelfLevel] {
			levels = append(levels, m.DelfLevel)
			delete(used, m.DelfLevel)
		}
	}
	return levels
}

func moduleTitle(m content.Module, articles int) string {
	return fmt.Sprintf("%s (%d articles, ~%d min)", m.Title, articles, m.EstimatedMinutes())
}

func articleTitle(a content.Article) string {
	if a.EstimatedTime > 0 {
		return fmt.Sprintf("%s · %s · %d min", a.Title, a.Level, a.EstimatedTime)
	}
	return fmt.Sprintf("%s · %s", a.Title, a.Level)
}
