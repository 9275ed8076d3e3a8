package match

import "context"

// Repository describes match lookup needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
}
