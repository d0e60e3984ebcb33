// Package admin holds the admin menu registry shared by every admin page.
package admin

import (
	"sort"
	"sync"

	"github.com/kube-rca/perfcheckup/internal/model"
)

const (
	ParentNone  = ""
	ParentTools = "tools"
)

// MenuItem - 관리자 메뉴 항목
type MenuItem struct {
	Title      string
	MenuTitle  string
	Slug       string
	Path       string
	Parent     string
	Capability string
	Icon       string
	Position   int
}

type Menu struct {
	mu    sync.RWMutex
	items []MenuItem
}

func NewMenu() *Menu {
	return &Menu{}
}

// Add registers item, replacing any entry with the same slug.
func (m *Menu) Add(item MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.MenuTitle == "" {
		item.MenuTitle = item.Title
	}
	for i := range m.items {
		if m.items[i].Slug == item.Slug {
			m.items[i] = item
			return
		}
	}
	m.items = append(m.items, item)
}

func (m *Menu) Find(slug string) (MenuItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.items {
		if item.Slug == slug {
			return item, true
		}
	}
	return MenuItem{}, false
}

// Visible returns the entries user may open, ordered by position then title.
func (m *Menu) Visible(user *model.AuthUser) []MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	visible := make([]MenuItem, 0, len(m.items))
	for _, item := range m.items {
		if item.Capability == "" || user.Can(item.Capability) {
			visible = append(visible, item)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Position != visible[j].Position {
			return visible[i].Position < visible[j].Position
		}
		return visible[i].MenuTitle < visible[j].MenuTitle
	})
	return visible
}
