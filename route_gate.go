package authclient

// Decision tells the consuming UI what it may render for the current session
// status.
type Decision string

const (
	// ShowLoading keeps the UI on a spinner until bootstrap resolves.
	ShowLoading Decision = "show_loading"
	// RenderProtected allows protected screens to render.
	RenderProtected Decision = "render_protected"
	// RedirectToLogin sends the user to the login screen.
	RedirectToLogin Decision = "redirect_to_login"
)

// Decide maps a session status to a route decision. It is a pure function:
// consumers re-evaluate it on every status change and must not cache the
// result across changes.
func Decide(status Status) Decision {
	switch status {
	case StatusAuthenticated:
		return RenderProtected
	case StatusUnauthenticated:
		return RedirectToLogin
	default:
		return ShowLoading
	}
}
