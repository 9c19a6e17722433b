package api

import (
	"net/http"

	"parley/pkg/service"
)

func (a *API) userProfile(w http.ResponseWriter, r *http.Request) {
	uID, err := qInt(r, "uId")
	if err != nil {
		fail(w, err)
		return
	}
	out, err := a.svc.UserProfile(token(r), uID)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string]service.Profile{"user": out})
}

func (a *API) usersAll(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.UsersAll(token(r))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string][]service.Profile{"users": out})
}

func (a *API) userSetName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NameFirst string `json:"nameFirst"`
		NameLast  string `json:"nameLast"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.UserSetName(token(r), req.NameFirst, req.NameLast); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) userSetEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.UserSetEmail(token(r), req.Email); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) userSetHandle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HandleStr string `json:"handleStr"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.UserSetHandle(token(r), req.HandleStr); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}
