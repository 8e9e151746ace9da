package constants

// Static route constants
const (
	PublicRoute  = "/"
	PaywallRoute = "/paywall"
	LoginRoute   = "/login"
	AppRoute     = "/app"
)
