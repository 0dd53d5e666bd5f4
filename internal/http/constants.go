package httpx

// Cookie names used by the auth flow.
const (
	SessionCookie           = "session_id"
	oauthStateCookie        = "oauth_state"
	oauthNonceCookie        = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
)

// Well-known paths.
const (
	// PathSignin and PathAcessoGeral are the public login surfaces kept for
	// bookmarked URLs from the previous system; both funnel into /auth/login.
	PathSignin      = "/signin"
	PathAcessoGeral = "/acesso-geral"
	PathAcessoReset = "/acesso-reset"
	PathDashboard   = "/dashboard"
)
