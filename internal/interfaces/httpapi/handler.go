package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/crickarena/fantasy-cricket/internal/domain/contest"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
	"github.com/crickarena/fantasy-cricket/internal/usecase"
)

type Handler struct {
	statService        *usecase.StatService
	teamPointsService  *usecase.TeamPointsService
	contestService     *usecase.ContestService
	leaderboardService *usecase.LeaderboardService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	statService *usecase.StatService,
	teamPointsService *usecase.TeamPointsService,
	contestService *usecase.ContestService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		statService:        statService,
		teamPointsService:  teamPointsService,
		contestService:     contestService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) FinalizePlayingXI(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizePlayingXI")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req playingXIFinalizeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	selections := make([]usecase.PlayingXISelection, 0, len(req.Selections))
	for _, selection := range req.Selections {
		role, ok := playerstat.NormalizeRole(selection.Role)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: unknown role %q", usecase.ErrInvalidInput, selection.Role))
			return
		}
		selections = append(selections, usecase.PlayingXISelection{
			PlayerID: selection.PlayerID,
			Role:     role,
		})
	}

	if err := h.statService.FinalizePlayingXI(ctx, matchID, selections); err != nil {
		h.logger.WarnContext(ctx, "finalize playing XI failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]any{
		"matchId": matchID,
		"players": len(selections),
	})
}

func (h *Handler) ApplyStatUpdates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyStatUpdates")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req statUpdateBatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updates := make([]usecase.StatUpdate, 0, len(req.Updates))
	for _, update := range req.Updates {
		updates = append(updates, update.toInput())
	}

	result, err := h.statService.ApplyStatUpdates(ctx, matchID, updates)
	if err != nil {
		h.logger.WarnContext(ctx, "apply stat updates failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statBatchToDTO(result))
}

func (h *Handler) RefreshTeamPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshTeamPoints")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	result, err := h.teamPointsService.RefreshTeamPoints(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh team points failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		MatchID:      result.MatchID,
		UpdatedTeams: result.UpdatedTeams,
		TotalTeams:   result.TotalTeams,
	})
}

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContest")
	defer span.End()

	var req createContestRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.contestService.CreateContest(ctx, usecase.CreateContestInput{
		MatchID:        req.MatchID,
		EntryFee:       req.EntryFee,
		PrizePool:      req.PrizePool,
		TotalSpots:     req.TotalSpots,
		MaxTeamPerUser: req.MaxTeamPerUser,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contest failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contestToDTO(created))
}

func (h *Handler) GetContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContest")
	defer span.End()

	contestID := r.PathValue("contestID")
	item, err := h.contestService.GetContest(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestToDTO(item))
}

func (h *Handler) ListContestsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestsByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.contestService.ListContestsByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contests failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]contestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, contestToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) JoinContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinContest")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	var req joinContestRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.contestService.Join(ctx, usecase.JoinContestInput{
		ContestID: contestID,
		UserID:    req.UserID,
		TeamID:    req.TeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join contest failed",
			"contest_id", contestID,
			"user_id", req.UserID,
			"team_id", req.TeamID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, joinResultDTO{
		EntryID:          result.Entry.ID,
		ContestStatus:    string(result.ContestStatus),
		RemainingBalance: result.RemainingBalance,
		SpotsLeft:        result.SpotsLeft,
		JoinedAt:         result.Entry.JoinedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	contestID := r.PathValue("contestID")
	view, err := h.leaderboardService.Leaderboard(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]leaderboardRowDTO, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, leaderboardRowDTO{
			Rank:     row.Rank,
			EntryID:  row.EntryID,
			UserID:   row.UserID,
			TeamID:   row.TeamID,
			Points:   row.Points,
			JoinedAt: row.JoinedAt.UTC().Format(time.RFC3339),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		ContestID:   view.ContestID,
		MatchID:     view.MatchID,
		MatchStatus: string(view.MatchStatus),
		GeneratedAt: view.GeneratedAt.UTC().Format(time.RFC3339),
		Rows:        rows,
	})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type playingXIFinalizeRequest struct {
	Selections []xiSelectionDTO `json:"selections" validate:"required,min=1,max=22,dive"`
}

type xiSelectionDTO struct {
	PlayerID string `json:"playerId" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type statUpdateBatchRequest struct {
	Updates []statUpdateDTO `json:"updates" validate:"required,min=1,dive"`
}

type statUpdateDTO struct {
	PlayerID     string       `json:"playerId" validate:"required"`
	Batting      *battingDTO  `json:"batting,omitempty"`
	Bowling      *bowlingDTO  `json:"bowling,omitempty"`
	Fielding     *fieldingDTO `json:"fielding,omitempty"`
	IsManOfMatch *bool        `json:"isManOfMatch,omitempty"`
}

type battingDTO struct {
	Runs       int  `json:"runs" validate:"min=0"`
	BallsFaced int  `json:"ballsFaced" validate:"min=0"`
	Fours      int  `json:"fours" validate:"min=0"`
	Sixes      int  `json:"sixes" validate:"min=0"`
	IsOut      bool `json:"isOut"`
}

type bowlingDTO struct {
	OversBowled  float64 `json:"oversBowled" validate:"min=0"`
	WicketsTaken int     `json:"wicketsTaken" validate:"min=0"`
	MaidenOvers  int     `json:"maidenOvers" validate:"min=0"`
	LBWCount     int     `json:"lbwCount" validate:"min=0"`
	BowledCount  int     `json:"bowledCount" validate:"min=0"`
	RunsGiven    int     `json:"runsGiven" validate:"min=0"`
}

type fieldingDTO struct {
	Catches   int `json:"catches" validate:"min=0"`
	Stumpings int `json:"stumpings" validate:"min=0"`
	RunOuts   int `json:"runOuts" validate:"min=0"`
}

func (d statUpdateDTO) toInput() usecase.StatUpdate {
	update := usecase.StatUpdate{
		PlayerID:     d.PlayerID,
		IsManOfMatch: d.IsManOfMatch,
	}
	if d.Batting != nil {
		update.Batting = &usecase.BattingUpdate{
			Runs:       d.Batting.Runs,
			BallsFaced: d.Batting.BallsFaced,
			Fours:      d.Batting.Fours,
			Sixes:      d.Batting.Sixes,
			IsOut:      d.Batting.IsOut,
		}
	}
	if d.Bowling != nil {
		update.Bowling = &usecase.BowlingUpdate{
			OversBowled:  d.Bowling.OversBowled,
			WicketsTaken: d.Bowling.WicketsTaken,
			MaidenOvers:  d.Bowling.MaidenOvers,
			LBWCount:     d.Bowling.LBWCount,
			BowledCount:  d.Bowling.BowledCount,
			RunsGiven:    d.Bowling.RunsGiven,
		}
	}
	if d.Fielding != nil {
		update.Fielding = &usecase.FieldingUpdate{
			Catches:   d.Fielding.Catches,
			Stumpings: d.Fielding.Stumpings,
			RunOuts:   d.Fielding.RunOuts,
		}
	}
	return update
}

type createContestRequest struct {
	MatchID        string `json:"matchId" validate:"required"`
	EntryFee       int64  `json:"entryFee" validate:"min=0"`
	PrizePool      int64  `json:"prizePool" validate:"min=0"`
	TotalSpots     int    `json:"totalSpots" validate:"required,min=1"`
	MaxTeamPerUser int    `json:"maxTeamPerUser" validate:"required,min=1"`
}

type joinContestRequest struct {
	UserID string `json:"userId" validate:"required"`
	TeamID string `json:"teamId" validate:"required"`
}

type statRowDTO struct {
	PlayerID    string `json:"playerId"`
	Status      string `json:"status"`
	TotalPoints int    `json:"totalPoints"`
	Message     string `json:"message,omitempty"`
}

type statBatchDTO struct {
	MatchID     string           `json:"matchId"`
	Applied     int              `json:"applied"`
	Failed      int              `json:"failed"`
	Rows        []statRowDTO     `json:"rows"`
	Propagation refreshResultDTO `json:"propagation"`
}

type refreshResultDTO struct {
	MatchID      string `json:"matchId"`
	UpdatedTeams int    `json:"updatedTeams"`
	TotalTeams   int    `json:"totalTeams"`
}

type contestDTO struct {
	ID                  string `json:"id"`
	MatchID             string `json:"matchId"`
	Format              string `json:"format"`
	EntryFee            int64  `json:"entryFee"`
	PrizePool           int64  `json:"prizePool"`
	TotalSpots          int    `json:"totalSpots"`
	CurrentParticipants int    `json:"currentParticipants"`
	MaxTeamPerUser      int    `json:"maxTeamPerUser"`
	Status              string `json:"status"`
	CreatedAt           string `json:"createdAt"`
}

type joinResultDTO struct {
	EntryID          string `json:"entryId"`
	ContestStatus    string `json:"contestStatus"`
	RemainingBalance int64  `json:"remainingBalance"`
	SpotsLeft        int    `json:"spotsLeft"`
	JoinedAt         string `json:"joinedAt"`
}

type leaderboardRowDTO struct {
	Rank     int     `json:"rank"`
	EntryID  string  `json:"entryId"`
	UserID   string  `json:"userId"`
	TeamID   string  `json:"teamId"`
	Points   float64 `json:"points"`
	JoinedAt string  `json:"joinedAt"`
}

type leaderboardDTO struct {
	ContestID   string              `json:"contestId"`
	MatchID     string              `json:"matchId"`
	MatchStatus string              `json:"matchStatus"`
	GeneratedAt string              `json:"generatedAt"`
	Rows        []leaderboardRowDTO `json:"rows"`
}

func statBatchToDTO(result usecase.StatBatchResult) statBatchDTO {
	rows := make([]statRowDTO, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, statRowDTO{
			PlayerID:    row.PlayerID,
			Status:      row.Status,
			TotalPoints: row.TotalPoints,
			Message:     row.Message,
		})
	}
	return statBatchDTO{
		MatchID: result.MatchID,
		Applied: result.Applied,
		Failed:  result.Failed,
		Rows:    rows,
		Propagation: refreshResultDTO{
			MatchID:      result.Propagation.MatchID,
			UpdatedTeams: result.Propagation.UpdatedTeams,
			TotalTeams:   result.Propagation.TotalTeams,
		},
	}
}

func contestToDTO(item contest.Contest) contestDTO {
	return contestDTO{
		ID:                  item.ID,
		MatchID:             item.MatchID,
		Format:              string(item.Format),
		EntryFee:            item.EntryFee,
		PrizePool:           item.PrizePool,
		TotalSpots:          item.TotalSpots,
		CurrentParticipants: item.CurrentParticipants,
		MaxTeamPerUser:      item.MaxTeamPerUser,
		Status:              string(item.Status),
		CreatedAt:           item.CreatedAt.UTC().Format(time.RFC3339),
	}
}
