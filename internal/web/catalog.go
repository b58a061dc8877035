package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dowan1041/ocie-helper/internal/auth"
	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/imaging"
	"github.com/dowan1041/ocie-helper/internal/model"
	"github.com/dowan1041/ocie-helper/internal/view"
)

// multipartOverhead is allowed on top of the image size for form fields.
const multipartOverhead = 64 << 10

// navigate applies a navigation event. form carries the event's inputs.
func navigate(st view.State, event string, form url.Values) (view.State, bool) {
	switch event {
	case "search":
		return st.Submit(form.Get("q")), true
	case "select":
		return st.SelectRow(form.Get("id"), form.Get("nomenclature")), true
	case "list":
		return st.ViewList(), true
	case "back":
		return st.Back(), true
	case "clear":
		return st.Clear(), true
	case "add":
		return st.OpenAddItem(), true
	case "close":
		return st.CloseModal(), true
	}
	return st, false
}

func (s *Server) writeGranted(r *http.Request) bool {
	return s.WriteGate.Allowed(r, s.SessionSecret)
}

// formState reads the state a form was submitted from.
func (s *Server) formState(r *http.Request) view.State {
	v, err := url.ParseQuery(r.FormValue("state"))
	if err != nil {
		v = url.Values{}
	}
	return view.Decode(v, s.writeGranted(r))
}

// renderIndex loads the catalog and renders st. A failed load is shown as
// an empty catalog with an error banner.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, st view.State, data *PageData) {
	all, err := s.Catalog.List(r.Context())
	if err != nil {
		slog.Error("failed to load equipment", "error", err)
		data.Error = "Failed to load equipment data."
		all = nil
	}

	data.Title = "OCIE Helper"
	data.State = st
	data.StateQuery = st.Encode().Encode()
	data.Items = st.Results(all)
	data.Total = len(all)
	s.Templates.Render(w, "index.html", data)
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	st := view.Decode(r.URL.Query(), s.writeGranted(r))
	s.renderIndex(w, r, st, &PageData{})
}

// ViewEvent handles POST /view/{event}.
func (s *Server) ViewEvent(w http.ResponseWriter, r *http.Request) {
	st := s.formState(r)
	st, ok := navigate(st, r.PathValue("event"), r.Form)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, st.URL(), http.StatusSeeOther)
}

// PasscodeSubmit handles POST /passcode.
func (s *Server) PasscodeSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.formState(r)

	if !s.WriteGate.Verify(r.FormValue("passcode")) {
		slog.Warn("passcode rejected", "scope", auth.ScopeWrite, "remote", r.RemoteAddr)
		s.renderIndex(w, r, st.OpenAddItem(), &PageData{ModalError: "Invalid passcode"})
		return
	}

	token, err := auth.GenerateToken(s.SessionSecret, auth.ScopeWrite)
	if err != nil {
		slog.Error("failed to generate grant", "scope", auth.ScopeWrite, "error", err)
		s.renderIndex(w, r, st.OpenAddItem(), &PageData{ModalError: "Verification failed"})
		return
	}

	auth.SetGrantCookie(w, auth.ScopeWrite, token)
	http.Redirect(w, r, st.PasscodeAccepted().URL(), http.StatusSeeOther)
}

// AddItemSubmit handles POST /items.
func (s *Server) AddItemSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		s.renderIndex(w, r, view.Initial(), &PageData{Error: "File too large or invalid form."})
		return
	}

	st := s.formState(r)
	if !st.Authenticated {
		http.Redirect(w, r, st.OpenAddItem().URL(), http.StatusSeeOther)
		return
	}

	form := AddForm{
		LIN:          r.FormValue("lin"),
		Nomenclature: r.FormValue("nomenclature"),
		PartialNSN:   r.FormValue("partialNsn"),
		AnotherName:  r.FormValue("anotherName"),
		Size:         r.FormValue("size"),
	}
	in := model.EquipmentInput{
		LIN:          model.LINInput{form.LIN},
		Nomenclature: form.Nomenclature,
		PartialNSN:   form.PartialNSN,
		AnotherName:  form.AnotherName,
		Size:         form.Size,
	}

	var img *catalog.Image
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		img = &catalog.Image{Filename: header.Filename, Body: file}
	}

	st = st.OpenAddItem()
	item, err := s.Catalog.AddItem(r.Context(), in, img)
	if err != nil {
		s.renderIndex(w, r, st, &PageData{ModalError: addErrorMessage(err), Form: form})
		return
	}
	slog.Info("equipment added", "id", item.ID, "nsn", item.PartialNSN)

	next, delay := st.AddSucceeded()
	s.renderIndex(w, r, st, &PageData{
		Success:        "Item added successfully!",
		RefreshURL:     next.URL(),
		RefreshSeconds: delay.Seconds(),
	})
}

func addErrorMessage(err error) string {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, model.ErrDuplicate):
		return "Item with this NSN already exists"
	default:
		slog.Error("failed to add equipment", "error", err)
		return "Error adding item"
	}
}
