package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerContestRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/contests", handler.CreateContest)
	mux.HandleFunc("GET /v1/contests/{contestID}", handler.GetContest)
	mux.HandleFunc("POST /v1/contests/{contestID}/join", handler.JoinContest)
	mux.HandleFunc("GET /v1/contests/{contestID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/matches/{matchID}/contests", handler.ListContestsByMatch)
}

func registerOperatorRoutes(mux *http.ServeMux, handler *Handler, operatorToken string) {
	mux.Handle("POST /v1/matches/{matchID}/playing-xi", RequireOperatorToken(operatorToken, http.HandlerFunc(handler.FinalizePlayingXI)))
	mux.Handle("POST /v1/matches/{matchID}/stats", RequireOperatorToken(operatorToken, http.HandlerFunc(handler.ApplyStatUpdates)))
	mux.Handle("POST /v1/matches/{matchID}/refresh-points", RequireOperatorToken(operatorToken, http.HandlerFunc(handler.RefreshTeamPoints)))
}
