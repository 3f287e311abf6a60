package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/rosterbot/internal/service"
	"github.com/omarshaarawi/rosterbot/internal/stats"
)

const helpText = `Available commands:
/lineup - Show the saved lineup
/optimize - Optimize the lineup for this week's matchup
/optimize bench - Optimize using only players on the roster
/players <pos> [categories] - Rank the players who can play a position
/score - Projected category score vs this week's opponent
/whatif <player> - Best way to fit a player into the lineup
/swap <out> > <in> - Replace a lineup player
/lock <player> - Keep a player in every lineup
/unlock <player> - Release a locked player
/blacklist <player> - Keep a player out of every lineup
/unblacklist <player> - Remove a player from the blacklist`

// Manager is the lineup workflow behind the bot commands.
type Manager interface {
	Lineup() string
	Optimize(ctx context.Context) (string, error)
	OptimizeRoster(ctx context.Context) (string, error)
	Players(ctx context.Context, pos string, categories []string) (string, error)
	ShowScore(ctx context.Context) (string, error)
	WhatIf(ctx context.Context, name string) (string, error)
	Swap(ctx context.Context, outName, inName string) (string, error)
	Lock(ctx context.Context, name string) (string, error)
	Unlock(name string) (string, error)
	Blacklist(ctx context.Context, name string) (string, error)
	Unblacklist(name string) (string, error)
}

type Handler struct {
	manager Manager
}

func NewHandler(manager Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to RosterBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "lineup":
		msg.Text = h.manager.Lineup()
	case "optimize":
		h.handleOptimize(ctx, &msg, args)
	case "players":
		h.handlePlayers(ctx, &msg, args)
	case "score":
		h.reply(&msg, "fetching score", func() (string, error) { return h.manager.ShowScore(ctx) })
	case "whatif":
		h.withName(&msg, args, "whatif", func(name string) (string, error) { return h.manager.WhatIf(ctx, name) })
	case "swap":
		h.handleSwap(ctx, &msg, args)
	case "lock":
		h.withName(&msg, args, "lock", func(name string) (string, error) { return h.manager.Lock(ctx, name) })
	case "unlock":
		h.withName(&msg, args, "unlock", h.manager.Unlock)
	case "blacklist":
		h.withName(&msg, args, "blacklist", func(name string) (string, error) { return h.manager.Blacklist(ctx, name) })
	case "unblacklist":
		h.withName(&msg, args, "unblacklist", h.manager.Unblacklist)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, action string, fn func() (string, error)) {
	text, err := fn()
	if err != nil {
		msg.Text = errorText(action, err)
	} else {
		msg.Text = text
	}
}

func (h *Handler) withName(msg *tgbotapi.MessageConfig, args, command string, fn func(string) (string, error)) {
	if args == "" {
		msg.Text = fmt.Sprintf("Please provide a player name. Usage: /%s <player name>", command)
		return
	}
	h.reply(msg, command, func() (string, error) { return fn(args) })
}

func (h *Handler) handleOptimize(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	switch strings.ToLower(args) {
	case "":
		h.reply(msg, "optimizing lineup", func() (string, error) { return h.manager.Optimize(ctx) })
	case "bench":
		h.reply(msg, "optimizing lineup", func() (string, error) { return h.manager.OptimizeRoster(ctx) })
	default:
		msg.Text = "Usage: /optimize or /optimize bench"
	}
}

func (h *Handler) handlePlayers(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		msg.Text = "Please provide a position. Usage: /players <pos> [categories]"
		return
	}
	h.reply(msg, "listing players", func() (string, error) { return h.manager.Players(ctx, fields[0], fields[1:]) })
}

func (h *Handler) handleSwap(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	outName, inName, ok := strings.Cut(args, ">")
	outName, inName = strings.TrimSpace(outName), strings.TrimSpace(inName)
	if !ok || outName == "" || inName == "" {
		msg.Text = "Usage: /swap <player out> > <player in>"
		return
	}
	h.reply(msg, "swap", func() (string, error) { return h.manager.Swap(ctx, outName, inName) })
}

func errorText(action string, err error) string {
	switch {
	case errors.Is(err, service.ErrPlayerNotFound):
		return fmt.Sprintf("🤔 %v", err)
	case errors.Is(err, service.ErrNoOpponent):
		return "No matchup this week."
	case errors.Is(err, service.ErrAmbiguousPlayer):
		return fmt.Sprintf("🤔 %v. Use the full name.", err)
	case errors.Is(err, service.ErrIneligiblePosition),
		errors.Is(err, service.ErrPlayerUnavailable),
		errors.Is(err, service.ErrUnknownPosition),
		errors.Is(err, stats.ErrInvalidCategory):
		return fmt.Sprintf("⛔ %v", err)
	}
	return fmt.Sprintf("Error %s: %v", action, err)
}
