// router.go — Parses prefixed text commands and dispatches them to the
// movie repository. The router holds no business logic beyond argument
// validation; every user-visible failure becomes plain reply text.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/kylemdonovan/moviebot/internal/catalog"
	"github.com/kylemdonovan/moviebot/internal/metrics"
	"github.com/kylemdonovan/moviebot/internal/telemetry"
)

// Router turns incoming chat text into repository calls and reply text.
// Safe for concurrent use: distinct messages may be handled on separate
// goroutines, and the command prefix swap is atomic.
type Router struct {
	prefix atomic.Value // string
	repo   *catalog.Repository
	log    *slog.Logger
}

// NewRouter creates a router with the given initial command prefix.
func NewRouter(prefix string, repo *catalog.Repository, log *slog.Logger) *Router {
	r := &Router{repo: repo, log: log}
	if prefix == "" {
		prefix = "!"
	}
	r.prefix.Store(prefix)
	return r
}

// Prefix returns the current command prefix.
func (r *Router) Prefix() string {
	return r.prefix.Load().(string)
}

// HandleMessage parses one incoming message and returns the replies to send,
// in order. Non-commands and unrecognized commands return no replies.
func (r *Router) HandleMessage(ctx context.Context, text string) []string {
	cmd, arg, ok := r.parse(text)
	if !ok {
		return nil
	}

	start := time.Now()
	var (
		replies []string
		result  string
	)
	switch cmd {
	case "setprefix":
		replies, result = r.handleSetPrefix(arg)
	case "help":
		replies, result = r.handleHelp()
	case "addmovie":
		replies, result = r.handleAddMovie(ctx, arg)
	case "listmovies":
		replies, result = r.handleListMovies(ctx)
	case "updatemovie":
		replies, result = r.handleUpdateMovie(ctx, arg)
	case "deletemovie":
		replies, result = r.handleDeleteMovie(ctx, arg)
	case "deleteall":
		replies, result = r.handleDeleteAll(ctx)
	case "roll":
		replies, result = r.handleRoll(arg)
	case "randommovie":
		replies, result = r.handleRandomMovie(ctx)
	default:
		// Unknown commands are silently ignored, not an error.
		metrics.ObserveCommand("unknown", "ignored", start)
		return nil
	}

	metrics.ObserveCommand(cmd, result, start)
	r.log.Debug("command handled", "command", cmd, "result", result, "replies", len(replies))
	return replies
}

// parse splits raw text into a lowercased command name and its raw argument.
// Text not starting with the current prefix is not a command.
func (r *Router) parse(text string) (cmd, arg string, ok bool) {
	prefix := r.Prefix()
	if !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(text, prefix)
	if rest == "" {
		return "", "", false
	}

	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		cmd, arg = rest[:i], strings.TrimSpace(rest[i:])
	} else {
		cmd = rest
	}
	return strings.ToLower(cmd), arg, true
}

// ── handlers ──────────────────────────────────────────────────────────────────

func (r *Router) handleSetPrefix(arg string) ([]string, string) {
	p := strings.TrimSpace(arg)
	if p == "" {
		return []string{fmt.Sprintf("Usage: %ssetprefix <new prefix>", r.Prefix())}, "invalid"
	}
	r.prefix.Store(p)
	return []string{"Prefix has been set to: " + p}, "ok"
}

func (r *Router) handleHelp() ([]string, string) {
	p := r.Prefix()
	help := strings.Join([]string{
		"Commands:",
		p + "addmovie <name>[*<name>...] - add movies to the list",
		p + "listmovies - list every movie",
		p + "updatemovie <old name> <new name> - rename a movie",
		p + "deletemovie <name> - delete a movie",
		p + "deleteall - delete every movie",
		p + "randommovie - pick a random movie",
		p + "roll <sides> - roll a dice",
		p + "setprefix <prefix> - change the command prefix",
		p + "help - show this message",
	}, "\n")
	return []string{help}, "ok"
}

func (r *Router) handleAddMovie(ctx context.Context, arg string) ([]string, string) {
	if strings.TrimSpace(arg) == "" {
		return []string{fmt.Sprintf("Usage: %saddmovie <name>[*<name>...]", r.Prefix())}, "invalid"
	}

	var (
		added    []string
		replies  []string
		result   = "ok"
		anyAdded bool
	)
	for _, raw := range strings.Split(arg, "*") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name, err := r.repo.Add(ctx, raw)
		switch {
		case err == nil:
			added = append(added, name)
			anyAdded = true
		case errors.Is(err, catalog.ErrAlreadyExists):
			replies = append(replies, fmt.Sprintf("Movie %q is already in the list.", name))
		default:
			r.storeFault(err, "addmovie", name)
			replies = append(replies, fmt.Sprintf("Could not add %q right now. Try again later.", name))
			result = "error"
		}
	}
	if len(added) > 0 {
		replies = append([]string{"Movies added to the list: " + strings.Join(added, ", ")}, replies...)
	}
	if len(replies) == 0 {
		// Argument was all separators and whitespace.
		return []string{fmt.Sprintf("Usage: %saddmovie <name>[*<name>...]", r.Prefix())}, "invalid"
	}
	if result == "ok" && !anyAdded {
		result = "conflict"
	}
	return replies, result
}

func (r *Router) handleListMovies(ctx context.Context) ([]string, string) {
	movies, err := r.repo.List(ctx)
	if err != nil {
		r.storeFault(err, "listmovies", "")
		return []string{"Could not list movies right now. Try again later."}, "error"
	}
	if len(movies) == 0 {
		return []string{"There are no movies in the list."}, "ok"
	}
	return RenderMany(movies), "ok"
}

func (r *Router) handleUpdateMovie(ctx context.Context, arg string) ([]string, string) {
	usage := fmt.Sprintf("Usage: %supdatemovie <old name> <new name>", r.Prefix())
	fields := strings.Fields(arg)
	if len(fields) < 2 {
		return []string{usage}, "invalid"
	}
	// First token is the old name, the remainder the new one.
	oldRaw, newRaw := fields[0], strings.Join(fields[1:], " ")

	oldName, newName, err := r.repo.Rename(ctx, oldRaw, newRaw)
	switch {
	case err == nil:
		return []string{fmt.Sprintf("Movie %q updated to %q.", oldName, newName)}, "ok"
	case errors.Is(err, catalog.ErrNotFound):
		return []string{fmt.Sprintf("Movie %q is not in the list.", oldName)}, "not_found"
	case errors.Is(err, catalog.ErrAlreadyExists):
		return []string{fmt.Sprintf("Movie %q is already in the list.", newName)}, "conflict"
	default:
		r.storeFault(err, "updatemovie", oldName)
		return []string{"Could not update the movie right now. Try again later."}, "error"
	}
}

func (r *Router) handleDeleteMovie(ctx context.Context, arg string) ([]string, string) {
	if strings.TrimSpace(arg) == "" {
		return []string{fmt.Sprintf("Usage: %sdeletemovie <name>", r.Prefix())}, "invalid"
	}
	name, err := r.repo.Delete(ctx, arg)
	switch {
	case err == nil:
		return []string{fmt.Sprintf("Movie %q deleted from the list.", name)}, "ok"
	case errors.Is(err, catalog.ErrNotFound):
		return []string{fmt.Sprintf("Movie %q is not in the list.", name)}, "not_found"
	default:
		r.storeFault(err, "deletemovie", name)
		return []string{"Could not delete the movie right now. Try again later."}, "error"
	}
}

func (r *Router) handleDeleteAll(ctx context.Context) ([]string, string) {
	n, err := r.repo.DeleteAll(ctx)
	if err != nil {
		r.storeFault(err, "deleteall", "")
		return []string{"Could not delete the movies right now. Try again later."}, "error"
	}
	return []string{fmt.Sprintf("%d movies have been deleted.", n)}, "ok"
}

func (r *Router) handleRoll(arg string) ([]string, string) {
	usage := fmt.Sprintf("Please provide a positive number, like %sroll 6.", r.Prefix())
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return []string{usage}, "invalid"
	}
	v := rand.Intn(n) + 1
	return []string{fmt.Sprintf("You rolled a %d-sided dice and got: %d", n, v)}, "ok"
}

func (r *Router) handleRandomMovie(ctx context.Context) ([]string, string) {
	m, err := r.repo.Random(ctx)
	if err != nil {
		r.storeFault(err, "randommovie", "")
		return []string{"Could not pick a movie right now. Try again later."}, "error"
	}
	if m == nil {
		return []string{"No movies found."}, "ok"
	}
	return []string{RenderOne(*m)}, "ok"
}

// storeFault logs and reports an unexpected persistence failure. The user
// only ever sees the generic reply built by the caller.
func (r *Router) storeFault(err error, command, movie string) {
	r.log.Error("store fault", "command", command, "movie", movie, "error", err)
	metrics.StoreErrors.WithLabelValues(command).Inc()
	telemetry.CaptureError(err, map[string]string{"command": command, "movie": movie})
}
