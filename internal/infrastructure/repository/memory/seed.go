package memory

import (
	"time"

	"github.com/crickarena/fantasy-cricket/internal/domain/match"
	"github.com/crickarena/fantasy-cricket/internal/domain/playerstat"
	"github.com/crickarena/fantasy-cricket/internal/domain/wallet"
)

const (
	MatchIDMumbaiChennai  = "mt-ind-t20-001"
	MatchIDDelhiBangalore = "mt-ind-t20-002"
	MatchIDIndiaAustralia = "mt-int-odi-001"
	MatchIDEnglandIndia   = "mt-int-test-001"
)

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:         MatchIDMumbaiChennai,
			Sport:      "cricket",
			Format:     match.FormatT20,
			HomeTeamID: "team-mumbai",
			AwayTeamID: "team-chennai",
			Status:     match.StatusUpcoming,
			StartsAt:   time.Date(2026, 3, 22, 14, 0, 0, 0, time.UTC),
		},
		{
			ID:         MatchIDDelhiBangalore,
			Sport:      "cricket",
			Format:     match.FormatT20,
			HomeTeamID: "team-delhi",
			AwayTeamID: "team-bangalore",
			Status:     match.StatusUpcoming,
			StartsAt:   time.Date(2026, 3, 23, 14, 0, 0, 0, time.UTC),
		},
		{
			ID:         MatchIDIndiaAustralia,
			Sport:      "cricket",
			Format:     match.FormatODI,
			HomeTeamID: "team-india",
			AwayTeamID: "team-australia",
			Status:     match.StatusUpcoming,
			StartsAt:   time.Date(2026, 3, 25, 8, 30, 0, 0, time.UTC),
		},
		{
			ID:         MatchIDEnglandIndia,
			Sport:      "cricket",
			Format:     match.FormatTest,
			HomeTeamID: "team-england",
			AwayTeamID: "team-india",
			Status:     match.StatusUpcoming,
			StartsAt:   time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
		},
	}
}

type SeedSelection struct {
	PlayerID string
	Role     playerstat.Role
}

// SeedPlayingXI lists one side's eleven for the Mumbai v Chennai opener,
// roles included so duck exemptions have something to key off.
func SeedPlayingXI() []SeedSelection {
	return []SeedSelection{
		{PlayerID: "pl-rohit", Role: playerstat.RoleBatter},
		{PlayerID: "pl-ishan", Role: playerstat.RoleKeeper},
		{PlayerID: "pl-surya", Role: playerstat.RoleBatter},
		{PlayerID: "pl-tilak", Role: playerstat.RoleBatter},
		{PlayerID: "pl-hardik", Role: playerstat.RoleAllrounder},
		{PlayerID: "pl-tim", Role: playerstat.RoleAllrounder},
		{PlayerID: "pl-shams", Role: playerstat.RoleBatter},
		{PlayerID: "pl-piyush", Role: playerstat.RoleBowler},
		{PlayerID: "pl-bumrah", Role: playerstat.RoleBowler},
		{PlayerID: "pl-gerald", Role: playerstat.RoleBowler},
		{PlayerID: "pl-akash", Role: playerstat.RoleBowler},
	}
}

func SeedWallets() []wallet.Wallet {
	return []wallet.Wallet{
		{UserID: "usr-arjun", Balance: 5000},
		{UserID: "usr-meera", Balance: 1200},
		{UserID: "usr-kabir", Balance: 20},
	}
}
