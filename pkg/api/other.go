package api

import (
	"net/http"

	"parley/pkg/models"
)

func (a *API) adminUserRemove(w http.ResponseWriter, r *http.Request) {
	uID, err := qInt(r, "uId")
	if err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.AdminUserRemove(token(r), uID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) adminPermissionChange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID          int64 `json:"uId"`
		PermissionID int   `json:"permissionId"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if err := a.svc.AdminPermissionChange(token(r), req.UID, req.PermissionID); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.Search(token(r), r.URL.Query().Get("queryStr"))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string][]models.ClientMessage{"messages": out})
}

func (a *API) notificationsGet(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.NotificationsGet(token(r))
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, map[string][]models.ClientNotification{"notifications": out})
}

func (a *API) clear(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Clear(); err != nil {
		fail(w, err)
		return
	}
	respond(w, empty{})
}
