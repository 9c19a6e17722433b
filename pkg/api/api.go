// Package api exposes the service operations over HTTP. Handlers stay
// thin: decode the request, call the operation, map the error class to a
// status code.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parley/pkg/errdefs"
	"parley/pkg/service"
	"parley/pkg/utils"
)

type API struct {
	svc *service.Service
}

func New(svc *service.Service) *API {
	return &API{svc: svc}
}

// Router builds the route table. Paths are versioned per endpoint, not
// globally, so individual endpoints can evolve independently.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/auth/register/v3", a.authRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login/v3", a.authLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout/v2", a.authLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/passwordreset/request/v1", a.authResetRequest).Methods(http.MethodPost)
	r.HandleFunc("/auth/passwordreset/reset/v1", a.authReset).Methods(http.MethodPost)

	r.HandleFunc("/channels/create/v3", a.channelsCreate).Methods(http.MethodPost)
	r.HandleFunc("/channels/list/v3", a.channelsList).Methods(http.MethodGet)
	r.HandleFunc("/channels/listAll/v3", a.channelsListAll).Methods(http.MethodGet)

	r.HandleFunc("/channel/details/v3", a.channelDetails).Methods(http.MethodGet)
	r.HandleFunc("/channel/join/v3", a.channelJoin).Methods(http.MethodPost)
	r.HandleFunc("/channel/invite/v3", a.channelInvite).Methods(http.MethodPost)
	r.HandleFunc("/channel/messages/v3", a.channelMessages).Methods(http.MethodGet)
	r.HandleFunc("/channel/leave/v2", a.channelLeave).Methods(http.MethodPost)
	r.HandleFunc("/channel/addowner/v2", a.channelAddOwner).Methods(http.MethodPost)
	r.HandleFunc("/channel/removeowner/v2", a.channelRemoveOwner).Methods(http.MethodPost)

	r.HandleFunc("/dm/create/v2", a.dmCreate).Methods(http.MethodPost)
	r.HandleFunc("/dm/list/v2", a.dmList).Methods(http.MethodGet)
	r.HandleFunc("/dm/details/v2", a.dmDetails).Methods(http.MethodGet)
	r.HandleFunc("/dm/leave/v2", a.dmLeave).Methods(http.MethodPost)
	r.HandleFunc("/dm/remove/v2", a.dmRemove).Methods(http.MethodDelete)
	r.HandleFunc("/dm/messages/v2", a.dmMessages).Methods(http.MethodGet)

	r.HandleFunc("/message/send/v2", a.messageSend).Methods(http.MethodPost)
	r.HandleFunc("/message/senddm/v2", a.messageSendDM).Methods(http.MethodPost)
	r.HandleFunc("/message/sendlater/v1", a.messageSendLater).Methods(http.MethodPost)
	r.HandleFunc("/message/sendlaterdm/v1", a.messageSendLaterDM).Methods(http.MethodPost)
	r.HandleFunc("/message/edit/v2", a.messageEdit).Methods(http.MethodPut)
	r.HandleFunc("/message/remove/v2", a.messageRemove).Methods(http.MethodDelete)
	r.HandleFunc("/message/share/v1", a.messageShare).Methods(http.MethodPost)
	r.HandleFunc("/message/react/v1", a.messageReact).Methods(http.MethodPost)
	r.HandleFunc("/message/unreact/v1", a.messageUnreact).Methods(http.MethodPost)
	r.HandleFunc("/message/pin/v1", a.messagePin).Methods(http.MethodPost)
	r.HandleFunc("/message/unpin/v1", a.messageUnpin).Methods(http.MethodPost)

	r.HandleFunc("/standup/start/v1", a.standupStart).Methods(http.MethodPost)
	r.HandleFunc("/standup/active/v1", a.standupActive).Methods(http.MethodGet)
	r.HandleFunc("/standup/send/v1", a.standupSend).Methods(http.MethodPost)

	r.HandleFunc("/user/profile/v3", a.userProfile).Methods(http.MethodGet)
	r.HandleFunc("/users/all/v2", a.usersAll).Methods(http.MethodGet)
	r.HandleFunc("/user/profile/setname/v2", a.userSetName).Methods(http.MethodPut)
	r.HandleFunc("/user/profile/setemail/v2", a.userSetEmail).Methods(http.MethodPut)
	r.HandleFunc("/user/profile/sethandle/v2", a.userSetHandle).Methods(http.MethodPut)

	r.HandleFunc("/admin/user/remove/v1", a.adminUserRemove).Methods(http.MethodDelete)
	r.HandleFunc("/admin/userpermission/change/v1", a.adminPermissionChange).Methods(http.MethodPost)

	r.HandleFunc("/search/v1", a.search).Methods(http.MethodGet)
	r.HandleFunc("/notifications/get/v1", a.notificationsGet).Methods(http.MethodGet)
	r.HandleFunc("/clear/v1", a.clear).Methods(http.MethodDelete)

	return r
}

// token reads the session token header. Resolution happens inside the
// service so an absent header fails the same way a stale one does.
func token(r *http.Request) string {
	return r.Header.Get("Token")
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errdefs.InvalidArgument("invalid json body")
	}
	return nil
}

func qInt(r *http.Request, key string) (int64, error) {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0, errdefs.InvalidArgument("missing or invalid " + key)
	}
	return v, nil
}

func respond(w http.ResponseWriter, v any) {
	utils.JSONWrite(w, http.StatusOK, v)
}

func fail(w http.ResponseWriter, err error) {
	utils.JSONError(w, errdefs.HTTPStatus(err), err.Error())
}

// empty is the {} success body.
type empty struct{}
