package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/timer"
)

// Response is the envelope of every API reply.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// AddIconRequest is the body of POST /docks/{dockID}/icons. A nil Slot
// asks the allocator for the first free slot.
type AddIconRequest struct {
	Instance string     `json:"instance"`
	Class    string     `json:"class"`
	Command  string     `json:"command"`
	Slot     *dock.Slot `json:"slot,omitempty"`
}

// AddIconResponse reports where a new icon was docked.
type AddIconResponse struct {
	Icon dock.IconID `json:"icon"`
	Dock dock.DockID `json:"dock"`
	Slot dock.Slot   `json:"slot"`
}

// MoveRequest drags an icon to a pixel position and releases it.
type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MoveResponse reports what the drop did.
type MoveResponse struct {
	Result string      `json:"result"`
	Dock   dock.DockID `json:"dock,omitempty"`
	Slot   dock.Slot   `json:"slot"`
}

type omnipresentRequest struct {
	On bool `json:"on"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleListDocks(w http.ResponseWriter, r *http.Request) {
	var v dock.View
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		v = d.Snapshot()
		return nil
	})
	s.reply(w, http.StatusOK, v, err)
}

func (s *Server) handleGetDock(w http.ResponseWriter, r *http.Request) {
	id := dock.DockID(chi.URLParam(r, "dockID"))
	var v dock.DockView
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		var err error
		v, err = d.DockView(id)
		return err
	})
	s.reply(w, http.StatusOK, v, err)
}

func (s *Server) handleAddIcon(w http.ResponseWriter, r *http.Request) {
	id := dock.DockID(chi.URLParam(r, "dockID"))
	var req AddIconRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := errors.ValidateName(req.Instance); err != nil {
		s.fail(w, err)
		return
	}
	var resp AddIconResponse
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		iconID := d.NewIcon(req.Instance, req.Class, req.Command, 0)
		slot, err := placeIcon(d, id, iconID, req.Slot)
		if err != nil {
			if derr := d.DiscardIcon(iconID); derr != nil {
				s.logger.Error("discard icon", "icon", iconID, "err", derr)
			}
			return err
		}
		resp = AddIconResponse{Icon: iconID, Dock: id, Slot: slot}
		return nil
	})
	s.reply(w, http.StatusCreated, resp, err)
}

func placeIcon(d *dock.Desktop, id dock.DockID, iconID dock.IconID, at *dock.Slot) (dock.Slot, error) {
	if at == nil {
		return d.DockIcon(id, iconID)
	}
	if err := d.Attach(id, iconID, *at); err != nil {
		return dock.Slot{}, err
	}
	return *at, nil
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	id := dock.DockID(chi.URLParam(r, "dockID"))
	var shifts []dock.Shift
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		var err error
		shifts, err = d.Consolidate(id)
		return err
	})
	s.reply(w, http.StatusOK, map[string]int{"shifted": len(shifts)}, err)
}

func (s *Server) handleRemoveIcon(w http.ResponseWriter, r *http.Request) {
	id := dock.IconID(chi.URLParam(r, "iconID"))
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		return d.RemoveIcon(id)
	})
	s.reply(w, http.StatusOK, nil, err)
}

func (s *Server) handleMoveIcon(w http.ResponseWriter, r *http.Request) {
	id := dock.IconID(chi.URLParam(r, "iconID"))
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	var resp MoveResponse
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		out, err := d.DragTo(id, geometry.Point{X: req.X, Y: req.Y})
		resp = MoveResponse{Result: out.Result.String(), Dock: out.Dock, Slot: out.Slot}
		if errors.IsPlacement(err) {
			// The icon went back where it was; the result says so.
			return nil
		}
		return err
	})
	s.reply(w, http.StatusOK, resp, err)
}

func (s *Server) handleOmnipresent(w http.ResponseWriter, r *http.Request) {
	id := dock.IconID(chi.URLParam(r, "iconID"))
	var req omnipresentRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		return d.SetOmnipresent(id, req.On)
	})
	s.reply(w, http.StatusOK, map[string]bool{"omnipresent": req.On}, err)
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	id := dock.IconID(chi.URLParam(r, "iconID"))
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		return d.Launch(r.Context(), id)
	})
	s.reply(w, http.StatusAccepted, nil, err)
}

func (s *Server) handleAddDrawer(w http.ResponseWriter, r *http.Request) {
	var v dock.DockView
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		id, err := d.AddDrawer()
		if err != nil {
			return err
		}
		v, err = d.DockView(id)
		return err
	})
	s.reply(w, http.StatusCreated, v, err)
}

func (s *Server) handleRemoveDrawer(w http.ResponseWriter, r *http.Request) {
	id := dock.DockID(chi.URLParam(r, "dockID"))
	err := s.do(r.Context(), func(d *dock.Desktop) error {
		return d.RemoveDrawer(id)
	})
	s.reply(w, http.StatusOK, nil, err)
}

func (s *Server) handleChangeWorkspace(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.fail(w, errors.New(errors.ErrCodeInvalidInput, "workspace must be a number"))
		return
	}
	err = s.do(r.Context(), func(d *dock.Desktop) error {
		return d.ChangeWorkspace(n)
	})
	s.reply(w, http.StatusOK, map[string]int{"workspace": n}, err)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.saver == nil {
		s.fail(w, errors.New(errors.ErrCodeUnsupported, "no store configured"))
		return
	}
	wrote, err := s.Save(r.Context())
	s.reply(w, http.StatusOK, map[string]bool{"written": wrote}, err)
}

// =============================================================================
// Encoding
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) reply(w http.ResponseWriter, status int, data any, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	s.write(w, status, Response{Status: "success", Data: data})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	s.write(w, status, Response{
		Status: "error",
		Error:  errors.UserMessage(err),
		Code:   string(errors.GetCode(err)),
	})
}

func (s *Server) write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	if stderrors.Is(err, timer.ErrLoopClosed) {
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeDockNotFound, errors.ErrCodeIconNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidName, errors.ErrCodeUnresolvedCommand:
		return http.StatusBadRequest
	case errors.ErrCodeDockFull, errors.ErrCodeSlotCollision, errors.ErrCodeNoOnScreenSlot,
		errors.ErrCodeOutOfReach, errors.ErrCodeOmnipresentCollision, errors.ErrCodeNotApplicable:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeLaunch:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
