package api

import (
	"net/http"

	"parley/pkg/service"
)

func (a *API) dmCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UIDs []int64 `json:"uIds"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	id, err := a.svc.DMCreate(token(r), req.UIDs)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]int64{"dmId": id})
}

func (a *API) dmList(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.DMList(token(r))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string][]service.DMSummary{"dms": out})
}

func (a *API) dmDetails(w http.ResponseWriter, r *http.Request) {
	dmID, err := qInt(r, "dmId")
	if err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.DMDetails(token(r), dmID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}

func (a *API) dmLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DMID int64 `json:"dmId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.DMLeave(token(r), req.DMID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) dmRemove(w http.ResponseWriter, r *http.Request) {
	dmID, err := qInt(r, "dmId")
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.DMRemove(token(r), dmID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) dmMessages(w http.ResponseWriter, r *http.Request) {
	dmID, err := qInt(r, "dmId")
	if err != nil {
		fail(w, err)
		return
	}
	start, err := qInt(r, "start")
	if err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.DMMessages(token(r), dmID, start)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, out)
}
