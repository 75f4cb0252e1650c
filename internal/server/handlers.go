package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/naka-gawa/idealab/internal/usecase"
	"github.com/naka-gawa/idealab/internal/view"
	"go.uber.org/zap"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/board", http.StatusFound)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, status := q.Get("q"), q.Get("status")

	ideas, err := s.board.Load(r.Context())
	if err != nil {
		s.logError(r, "Failed to load idea board", err)
		s.render(w, r, http.StatusBadGateway, func(buf io.Writer) error {
			return s.renderer.Board(buf, view.FailedBoardPage(query, status, s.opts.BoardMax))
		})
		return
	}
	page := view.NewBoardPage(ideas, query, status, s.opts.BoardMax, s.now())
	s.render(w, r, http.StatusOK, func(buf io.Writer) error {
		return s.renderer.Board(buf, page)
	})
}

func (s *Server) handleLabs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, category := q.Get("q"), q.Get("cat")

	molecules, err := s.gallery.Load(r.Context())
	if err != nil {
		s.logError(r, "Failed to load molecules", err)
		s.render(w, r, http.StatusBadGateway, func(buf io.Writer) error {
			return s.renderer.Labs(buf, view.FailedLabsPage(query, category))
		})
		return
	}
	page := view.NewLabsPage(molecules, query, category, s.opts.LabsMax)
	s.render(w, r, http.StatusOK, func(buf io.Writer) error {
		return s.renderer.Labs(buf, page)
	})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	molecules, err := s.gallery.Load(r.Context())
	if err != nil {
		s.logError(r, "Failed to load molecules", err)
		http.Error(w, "Failed to load molecules", http.StatusBadGateway)
		return
	}
	visible := usecase.FilterMolecules(molecules, q.Get("q"), q.Get("cat"), s.opts.LabsMax)
	pick, err := usecase.PickLaunchable(visible, s.intn)
	if err != nil {
		http.Error(w, "No launchable molecules in this filter", http.StatusNotFound)
		return
	}
	s.logger.Info("Warping to molecule", zap.String("request_id", RequestID(r.Context())), zap.String("name", pick.DisplayName()))
	http.Redirect(w, r, pick.LaunchURL(), http.StatusFound)
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	page := s.blankIntakePage(r)
	s.render(w, r, http.StatusOK, func(buf io.Writer) error {
		return s.renderer.Intake(buf, page)
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}
	form := intakeFormFromRequest(r)

	attempt, err := s.intake.Submit(r.Context(), form)
	page := s.blankIntakePage(r)
	page.State = attempt.State
	status := http.StatusOK
	switch {
	case errors.Is(err, domain.ErrHoneypot):
	case errors.Is(err, domain.ErrTooFast):
		page.Message = view.MsgTooFast
		page.Form = form
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrIncomplete):
		page.Message = view.MsgIncomplete
		page.Form = form
		status = http.StatusUnprocessableEntity
	case err != nil:
		page.Message = view.MsgFailed
		page.Detail = failureDetail(err)
		page.Form = form
		status = http.StatusBadGateway
	default:
		page.Message = view.MsgSubmitted
		page.TrackingURL = attempt.Receipt.TrackingURL
	}
	s.render(w, r, status, func(buf io.Writer) error {
		return s.renderer.Intake(buf, page)
	})
}

func (s *Server) blankIntakePage(r *http.Request) view.IntakePage {
	return view.IntakePage{
		State:     domain.IntakeIdle,
		BoardURL:  s.opts.BoardURL,
		PageURL:   submissionPage(r),
		StartedAt: s.now().UnixMilli(),
	}
}

// submissionPage is the page the form was filed from: the posted page field,
// then the Referer, then the URL of this request.
func submissionPage(r *http.Request) string {
	if page := r.PostFormValue("page"); page != "" {
		return page
	}
	if ref := r.Referer(); ref != "" {
		return ref
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func intakeFormFromRequest(r *http.Request) domain.IntakeForm {
	form := domain.IntakeForm{
		Title:     r.PostFormValue("title"),
		Category:  r.PostFormValue("category"),
		Problem:   r.PostFormValue("problem"),
		Features:  r.PostFormValue("features"),
		Audience:  r.PostFormValue("audience"),
		Contact:   r.PostFormValue("contact"),
		Consent:   r.PostFormValue("ok") != "",
		Honeypot:  r.PostFormValue("company"),
		UserAgent: r.UserAgent(),
		Page:      submissionPage(r),
	}
	if ms, err := strconv.ParseInt(r.PostFormValue("started"), 10, 64); err == nil && ms > 0 {
		form.OpenedAt = time.UnixMilli(ms)
	}
	return form
}

// failureDetail is the second line under "Couldn't submit right now.".
func failureDetail(err error) string {
	var fe *domain.FetchError
	if errors.As(err, &fe) && fe.Kind == domain.KindHTTP {
		if fe.Reason != "" {
			return fe.Reason
		}
		return fmt.Sprintf("HTTP %d", fe.Status)
	}
	return view.MsgRetryLater
}

type ideasResponse struct {
	Ideas  []domain.Idea        `json:"ideas"`
	Counts []domain.StatusCount `json:"counts"`
}

func (s *Server) handleAPIIdeas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ideas, err := s.board.Load(r.Context())
	if err != nil {
		s.logError(r, "Failed to load idea board", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "couldn't load the idea board"})
		return
	}
	filtered := usecase.FilterIdeas(ideas, q.Get("q"), q.Get("status"), s.opts.BoardMax)
	if filtered == nil {
		filtered = []domain.Idea{}
	}
	writeJSON(w, http.StatusOK, ideasResponse{Ideas: filtered, Counts: usecase.CountByStatus(ideas)})
}

type moleculesResponse struct {
	Molecules  []domain.Molecule `json:"molecules"`
	Categories []string          `json:"categories"`
}

func (s *Server) handleAPIMolecules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	molecules, err := s.gallery.Load(r.Context())
	if err != nil {
		s.logError(r, "Failed to load molecules", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "couldn't load molecules"})
		return
	}
	filtered := usecase.FilterMolecules(molecules, q.Get("q"), q.Get("cat"), s.opts.LabsMax)
	if filtered == nil {
		filtered = []domain.Molecule{}
	}
	writeJSON(w, http.StatusOK, moleculesResponse{Molecules: filtered, Categories: usecase.Categories(molecules)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	results, err := s.health.Check(r.Context())
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ok": err == nil, "components": results})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.logError(r, "Failed to render page", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) logError(r *http.Request, msg string, err error) {
	s.logger.Error(msg, zap.String("request_id", RequestID(r.Context())), zap.Error(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
