// Package session holds the session cookie configuration and helpers.
//
// Both handler and middleware need these; keeping them here avoids an
// import cycle between those packages.
package session

import "net/http"

const (
	// CookieName is the name of the cookie that stores the provider's
	// session token.
	CookieName = "wicket_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"

	// CookieMaxAge sets the cookie expiration (7 days).
	CookieMaxAge = 7 * 24 * 60 * 60
)

// SetCookie sets the session cookie on the response.
//
// HttpOnly blocks JavaScript access, SameSite=Lax blocks cross-site POSTs
// while allowing normal navigation. Set isSecure in production so the
// cookie is only sent over HTTPS.
func SetCookie(w http.ResponseWriter, token string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client by setting
// MaxAge to -1, which tells the browser to delete it immediately.
func ClearCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
