package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"telegram-minigame-bot/internal/model"
	"telegram-minigame-bot/internal/platform"
)

// JoinOptions configures one join phase.
type JoinOptions struct {
	GameName     string
	Duration     time.Duration // length of the join window
	PollInterval time.Duration // how often the roster is recomputed
	MaxPlayers   int           // 0 = unlimited; extra joiners are dropped by join order
}

// CollectPlayers runs the join phase: it announces the game, attaches the
// join signal, and polls the roster until the deadline, updating the
// announcement with the current roster and remaining time. It returns the
// roster from the last completed poll, which may lag the deadline by up to
// one poll interval. The roster may be empty; deciding whether it is viable
// is the caller's concern.
func CollectPlayers(ctx context.Context, rt *Runtime, opts JoinOptions) ([]model.Player, error) {
	deadline := time.Now().Add(opts.Duration)

	announcement := rt.Post(joinText(opts, nil, opts.Duration))
	if announcement.Zero() {
		// Nobody can see the announcement, so nobody can join.
		return nil, nil
	}
	if err := rt.Platform().AttachJoinSignal(announcement); err != nil {
		rt.logger.Warn().Err(err).Msg("Failed to attach join signal")
		return nil, nil
	}
	// Close the window on every exit path so late presses are rejected
	// and the roster bookkeeping does not outlive the join phase.
	defer func() {
		if err := rt.Platform().DetachJoinSignal(announcement); err != nil {
			rt.logger.Debug().Err(err).Msg("Failed to detach join signal")
		}
	}()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	var roster []model.Player
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				rt.Edit(announcement, closedText(opts, roster))
				return roster, nil
			}
			current, err := rt.Platform().JoinRoster(announcement)
			if err != nil {
				rt.logger.Warn().Err(err).Msg("Failed to read join roster")
				continue
			}
			roster = filterHumans(current, opts.MaxPlayers)
			rt.Edit(announcement, joinText(opts, roster, time.Until(deadline)))
		}
	}
}

// filterHumans drops bot accounts and truncates to the player limit,
// preserving join order.
func filterHumans(players []model.Player, limit int) []model.Player {
	humans := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.IsBot {
			continue
		}
		humans = append(humans, p)
		if limit > 0 && len(humans) == limit {
			break
		}
	}
	return humans
}

// joinText renders the join announcement.
func joinText(opts JoinOptions, roster []model.Player, remaining time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎮 %s is starting! Press %s to join.\n", opts.GameName, platform.JoinEmoji)
	secs := int(remaining.Round(time.Second).Seconds())
	if secs < 0 {
		secs = 0
	}
	fmt.Fprintf(&b, "⏳ %d seconds left\n", secs)
	b.WriteString(rosterLine(roster))
	return b.String()
}

// closedText renders the announcement after the window closes.
func closedText(opts JoinOptions, roster []model.Player) string {
	return fmt.Sprintf("🎮 %s — joining closed.\n%s", opts.GameName, rosterLine(roster))
}

func rosterLine(roster []model.Player) string {
	if len(roster) == 0 {
		return "Players: none yet"
	}
	names := make([]string, len(roster))
	for i, p := range roster {
		names[i] = p.DisplayName
	}
	return "Players: " + strings.Join(names, ", ")
}
