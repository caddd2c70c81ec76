package apiclient

import "net/url"

// Backend routes. Everything lives under /hr-hub.
const (
	RouteUserSignIn  = "/hr-hub/auth/sign-in"
	RouteAdminSignIn = "/hr-hub/admin/auth/sign-in"
	RouteSignOut     = "/hr-hub/auth/sign-out"
	RouteMe          = "/hr-hub/auth/me"

	RouteProfile         = "/hr-hub/profile"
	RouteProfilePassword = "/hr-hub/profile/password"

	RouteAdmins      = "/hr-hub/admins"
	RouteUsers       = "/hr-hub/users"
	RouteDepartments = "/hr-hub/departments"

	RouteReviews        = "/hr-hub/reviews"
	RouteSelfReviews    = "/hr-hub/reviews/self"
	RouteManagerReviews = "/hr-hub/reviews/manager"
	RoutePeerReviews    = "/hr-hub/reviews/peer"
	RouteQuestionnaires = "/hr-hub/questionnaires"

	RouteNominations = "/hr-hub/nominations"
	RouteSummaries   = "/hr-hub/review-summaries"

	RouteDeviceToken         = "/hr-hub/notifications/device-token"
	RouteUnreadNotifications = "/hr-hub/notifications/unread"
	RouteNotifications       = "/hr-hub/notifications"
)

// Path joins a route with escaped id segments.
func Path(route string, segments ...string) string {
	out := route
	for _, seg := range segments {
		out += "/" + url.PathEscape(seg)
	}
	return out
}
