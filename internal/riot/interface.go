package riot

import "context"

// RiotClient resolves Riot IDs and reads account-level data from the Riot API.
// This allows for mock implementations to be used in tests.
type RiotClient interface {
	GetPUUID(ctx context.Context, gameName, tagLine string) (string, error)
	GetTotalMasteryScore(ctx context.Context, puuid string) (int, error)
}
