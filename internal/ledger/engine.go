package ledger

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
)

var _ Service = (*Engine)(nil)

// NewEngine creates an Engine backed by store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// UpdateStat validates the game, character and stat names and, only if all
// three pass, overwrites the stat's value and saves the full ledger.
func (e *Engine) UpdateStat(ctx context.Context, userID, gameName, characterName, statName string, value int) (StatUpdate, error) {
	if userID == "" {
		return StatUpdate{}, &ValidationError{Field: "user", Value: userID}
	}
	game, err := ParseGame(gameName)
	if err != nil {
		return StatUpdate{}, err
	}
	character, err := game.ParseCharacter(characterName)
	if err != nil {
		return StatUpdate{}, err
	}
	stat, err := game.ParseStat(statName)
	if err != nil {
		return StatUpdate{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return StatUpdate{}, err
	}

	stats := ledger.user(userID).characterStats(game, character)
	previous, hadPrevious := stats[stat]
	stats[stat] = value

	if err := e.save(ctx, ledger); err != nil {
		return StatUpdate{}, err
	}

	log.Info("Updated stat", "user", userID, "game", game, "character", character, "stat", stat, "value", value)
	return StatUpdate{
		UserID:      userID,
		Game:        game,
		Character:   character,
		Stat:        stat,
		Value:       value,
		Previous:    previous,
		HadPrevious: hadPrevious,
	}, nil
}

// SetCachedAccountID stores accountID for the user unless one is already
// cached. It reports whether anything was written.
func (e *Engine) SetCachedAccountID(ctx context.Context, userID, accountID string) (bool, error) {
	if userID == "" {
		return false, &ValidationError{Field: "user", Value: userID}
	}
	if accountID == "" {
		return false, &ValidationError{Field: "account id", Value: accountID}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return false, err
	}

	rec := ledger.user(userID)
	if rec.AccountID != "" {
		log.Debug("Account ID already cached", "user", userID)
		return false, nil
	}
	rec.AccountID = accountID

	if err := e.save(ctx, ledger); err != nil {
		return false, err
	}
	log.Info("Cached account ID", "user", userID)
	return true, nil
}

// CachedAccountID returns the user's cached account ID, if any.
func (e *Engine) CachedAccountID(ctx context.Context, userID string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return "", false, err
	}
	rec := ledger[userID]
	if rec == nil || rec.AccountID == "" {
		return "", false, nil
	}
	return rec.AccountID, true, nil
}

// GetUserStats returns the user's per-character stats for gameName, or for
// every game when gameName is empty.
func (e *Engine) GetUserStats(ctx context.Context, userID, gameName string) (UserView, error) {
	games := Games
	if gameName != "" {
		game, err := ParseGame(gameName)
		if err != nil {
			return UserView{}, err
		}
		games = []Game{game}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ledger, err := e.load(ctx)
	if err != nil {
		return UserView{}, err
	}

	rec := ledger[userID]
	if !rec.hasGames() {
		return UserView{}, &NotFoundError{UserID: userID}
	}

	view := UserView{UserID: userID}
	for _, game := range games {
		gr := rec.game(game)
		if len(gr) == 0 {
			continue
		}
		view.Games = append(view.Games, gameView(game, gr))
	}
	if len(view.Games) == 0 {
		return UserView{}, &NotFoundError{UserID: userID, Game: games[0]}
	}
	return view, nil
}

func gameView(game Game, gr GameRecord) GameView {
	names := make([]string, 0, len(gr))
	for name := range gr {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := game.Stats()
	view := GameView{Game: game, Characters: make([]CharacterView, 0, len(names))}
	for _, name := range names {
		cv := CharacterView{Name: name, Stats: make([]StatValue, 0, len(stats))}
		for _, stat := range stats {
			v, ok := gr[name][stat]
			cv.Stats = append(cv.Stats, StatValue{Stat: stat, Value: v, Recorded: ok})
		}
		view.Characters = append(view.Characters, cv)
	}
	return view
}

func (e *Engine) load(ctx context.Context) (Ledger, error) {
	ledger, err := e.store.Load(ctx)
	if err != nil {
		log.Error("Failed to load ledger", "error", err)
		return nil, &CollaboratorError{Op: "load ledger", Err: err}
	}
	if ledger == nil {
		ledger = make(Ledger)
	}
	return ledger, nil
}

func (e *Engine) save(ctx context.Context, ledger Ledger) error {
	if err := e.store.Save(ctx, ledger); err != nil {
		log.Error("Failed to save ledger", "error", err)
		return &CollaboratorError{Op: "save ledger", Err: err}
	}
	return nil
}
