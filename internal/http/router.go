package http

import (
	"net/http"

	"newt/internal/auth"
	"newt/internal/chat"
	"newt/internal/config"
	"newt/internal/feed"
	"newt/internal/http/handler"
	mw "newt/internal/http/middleware"
	"newt/internal/jobs"
	"newt/internal/like"
	"newt/internal/reading"
	"newt/internal/summary"
	"newt/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps carries the wired services the API routes need.
type Deps struct {
	JWT       *auth.JWT
	Users     *user.Service
	Reading   *reading.Service
	Summaries *summary.Repo
	Likes     *like.Repo
	Feed      *feed.Assembler
	Assistant *chat.Assistant
	Jobs      *jobs.Repo
	Topics    []string
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{Users: d.Users, Reading: d.Reading, JWT: d.JWT}
	sh := &handler.SummaryHandler{Summaries: d.Summaries, Reading: d.Reading, Jobs: d.Jobs, Topics: d.Topics}
	rh := &handler.ReadingHandler{Reading: d.Reading}
	uh := &handler.UserHandler{Users: d.Users}
	fh := &handler.FeedHandler{Feed: d.Feed, Likes: d.Likes, Summaries: d.Summaries}
	ch := &handler.ChatHandler{Assistant: d.Assistant}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", ah.Register)
		r.Post("/auth/login", ah.Login)

		// Public reads
		r.Get("/summaries", sh.Recent)
		r.Get("/summaries/today", sh.Today)
		r.Get("/summaries/{id}", sh.ByID)
		r.Get("/past_summaries", sh.Past)
		r.Get("/topics", sh.ListTopics)

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.JWT))

			r.Get("/auth/me", ah.Me)

			r.Post("/read_summary", rh.ReadSummary)
			r.Get("/dashboard", rh.Dashboard)

			r.Post("/summaries/generate", sh.Generate)

			r.Get("/feed", fh.Personalized)
			r.Get("/likes", fh.ListLikes)
			r.Post("/likes", fh.LikeTopic)
			r.Delete("/likes", fh.UnlikeTopic)

			r.Get("/users", uh.List)
			r.Get("/user/{id}/profile", uh.Profile)
			r.Get("/user/{id}/followers", uh.Followers)
			r.Get("/user/{id}/following", uh.Following)
			r.Post("/follow/{id}", uh.Follow)
			r.Post("/unfollow/{id}", uh.Unfollow)

			r.Post("/ask-ai", ch.Ask)
		})
	})

	return r
}
