// Package view holds the navigation state of the browser UI. States are
// plain values; every transition returns a new State.
package view

import (
	"net/url"
	"strings"
	"time"

	"github.com/dowan1041/ocie-helper/internal/model"
)

// Mode is the base screen.
type Mode string

const (
	ModeHome   Mode = "home"
	ModeSearch Mode = "search"
	ModeList   Mode = "list"
)

// Modal is an overlay shown on top of the base screen.
type Modal string

const (
	ModalNone     Modal = ""
	ModalPasscode Modal = "passcode"
	ModalAdd      Modal = "add"
)

// AddCloseDelay is how long the add-item modal stays open after a
// successful submit.
const AddCloseDelay = 1500 * time.Millisecond

// State is the UI state of one browser session.
type State struct {
	Mode     Mode
	Previous Mode
	Query    string
	// Selected is the id of the record picked from the list, if any.
	Selected string
	Modal    Modal
	// Authenticated is true once the write passcode was accepted.
	Authenticated bool
}

// Initial returns the start state.
func Initial() State {
	return State{Mode: ModeHome, Previous: ModeHome}
}

// Submit runs a search. A blank query leaves the state unchanged.
func (s State) Submit(query string) State {
	if strings.TrimSpace(query) == "" {
		return s
	}
	s.Previous = s.Mode
	s.Mode = ModeSearch
	s.Query = query
	s.Selected = ""
	return s
}

// SelectRow opens a single record from the list.
func (s State) SelectRow(id, nomenclature string) State {
	s.Previous = ModeList
	s.Mode = ModeSearch
	s.Query = nomenclature
	s.Selected = id
	return s
}

// ViewList shows every record.
func (s State) ViewList() State {
	s.Previous = s.Mode
	s.Mode = ModeList
	s.Selected = ""
	return s
}

// Back leaves the search screen. Coming from the list it returns there and
// keeps the query; otherwise it clears the search.
func (s State) Back() State {
	if s.Previous == ModeList {
		s.Mode = ModeList
		s.Previous = ModeHome
		s.Selected = ""
		return s
	}
	return s.Clear()
}

// Clear returns to the home screen with an empty query. Modals and the
// write grant are kept.
func (s State) Clear() State {
	s.Mode = ModeHome
	s.Previous = ModeHome
	s.Query = ""
	s.Selected = ""
	return s
}

// OpenAddItem opens the add-item form, or the passcode prompt first if the
// session has no write grant.
func (s State) OpenAddItem() State {
	if s.Authenticated {
		s.Modal = ModalAdd
	} else {
		s.Modal = ModalPasscode
	}
	return s
}

// PasscodeAccepted marks the session as authenticated and opens the
// add-item form.
func (s State) PasscodeAccepted() State {
	s.Authenticated = true
	s.Modal = ModalAdd
	return s
}

// CloseModal closes any open overlay.
func (s State) CloseModal() State {
	s.Modal = ModalNone
	return s
}

// AddSucceeded returns the state to show once the add-item form closes and
// how long to wait before showing it.
func (s State) AddSucceeded() (State, time.Duration) {
	return s.CloseModal(), AddCloseDelay
}

// Results returns the records the current screen shows. The list is
// narrowed by the query; search mode shows the selected record if there is
// one. The home screen shows nothing.
func (s State) Results(all []model.Equipment) []model.Equipment {
	switch s.Mode {
	case ModeList:
		return model.Filter(all, s.Query)
	case ModeSearch:
		if s.Selected != "" {
			for _, e := range all {
				if e.ID == s.Selected {
					return []model.Equipment{e}
				}
			}
		}
		return model.Filter(all, s.Query)
	default:
		return nil
	}
}

// BackLabel is the caption of the back button on the search screen.
func (s State) BackLabel() string {
	if s.Previous == ModeList {
		return "Back to List"
	}
	return "Back"
}

// Encode writes the state to query parameters. Authenticated is not
// encoded; it comes from the write grant cookie.
func (s State) Encode() url.Values {
	v := url.Values{}
	if s.Mode != ModeHome {
		v.Set("mode", string(s.Mode))
	}
	if s.Previous != ModeHome && s.Previous != "" {
		v.Set("prev", string(s.Previous))
	}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	if s.Selected != "" {
		v.Set("id", s.Selected)
	}
	if s.Modal != ModalNone {
		v.Set("modal", string(s.Modal))
	}
	return v
}

// URL returns the page URL for the state.
func (s State) URL() string {
	if q := s.Encode().Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

// Decode reads a state from query parameters. Unknown values fall back to
// the initial state. A request for the add modal without a write grant
// becomes the passcode prompt.
func Decode(v url.Values, authenticated bool) State {
	s := Initial()
	s.Authenticated = authenticated

	if m := parseMode(v.Get("mode")); m != "" {
		s.Mode = m
	}
	if m := parseMode(v.Get("prev")); m != "" {
		s.Previous = m
	}
	s.Query = v.Get("q")
	s.Selected = v.Get("id")

	if s.Mode == ModeSearch && strings.TrimSpace(s.Query) == "" && s.Selected == "" {
		s = s.Clear()
	}
	if s.Mode != ModeSearch {
		s.Selected = ""
	}

	switch Modal(v.Get("modal")) {
	case ModalAdd, ModalPasscode:
		s = s.OpenAddItem()
	}
	return s
}

func parseMode(v string) Mode {
	switch m := Mode(v); m {
	case ModeHome, ModeSearch, ModeList:
		return m
	}
	return ""
}
