package routes

import (
	"net/http"

	"github.com/firstlabs/accounts/internal/app"
	"github.com/firstlabs/accounts/internal/handler"
	"github.com/firstlabs/accounts/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	auth := handler.NewAuthHandler(a.AuthService, a.SessionService)
	verification := handler.NewVerificationHandler(a.AuthService)
	user := handler.NewUserHandler(a.AvatarService)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	// Credential endpoints are rate limited per IP
	rateLimiter := middleware.RateLimitAuth()

	// Authentication
	mux.HandleFunc("POST /authentication/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /authentication/login", rateLimiter(auth.Login))
	mux.HandleFunc("GET /authentication/logout", middleware.RequireAuth(auth.Logout))
	mux.HandleFunc("GET /authentication/logout-all", middleware.RequireAuth(auth.LogoutAll))

	// Verification-code protocol (account confirmation and password reset)
	mux.HandleFunc("POST /verification/account", verification.VerifyAccount)
	mux.HandleFunc("GET /verification/account-resend-message", middleware.RequireAuth(verification.ResendVerification))
	mux.HandleFunc("POST /verification/forget-password-send-message", rateLimiter(verification.ForgetPasswordSend))
	mux.HandleFunc("POST /verification/forget-password", rateLimiter(verification.ForgetPasswordReset))

	// User profile
	mux.HandleFunc("GET /user/me", middleware.RequireAuth(user.Me))
	mux.HandleFunc("GET /user/avatar-upload-request", middleware.RequireAuth(user.AvatarUploadRequest))
	mux.HandleFunc("POST /user/avatar-upload-ack", middleware.RequireAuth(user.AvatarUploadAck))
	mux.HandleFunc("DELETE /user/avatar-remove", middleware.RequireAuth(user.AvatarRemove))

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.ConfigContext(a.Cfg),
		middleware.AuthGate(a.UserRepository, a.SessionService, a.TokenIssuer),
	)
}
