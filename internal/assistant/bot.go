package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// SearchLimit caps the listing appended to a SEARCH_GIGS reply.
const SearchLimit = 5

// Wizard answer errors.
var (
	ErrNoBudget = fmt.Errorf("%w: budget must contain a number", domain.ErrValidation)
)

// Marketplace is the slice of the marketplace the bot acts on.
type Marketplace interface {
	// ProfileForChat returns the profile bound to chatID, creating it with
	// displayName on first use.
	ProfileForChat(ctx context.Context, chatID int64, displayName string) (*domain.Profile, error)
	PostGig(ctx context.Context, createdBy uuid.UUID, d domain.GigDraft) (*domain.Gig, error)
	RegisterFreelancer(
		ctx context.Context,
		profileID uuid.UUID,
		reg domain.FreelancerRegistration,
	) (*domain.Profile, error)
	SearchGigs(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error)
}

// BotReply is the outcome of one Telegram turn.
type BotReply struct {
	Success bool   `json:"success"`
	Text    string `json:"response"`
	Mode    Mode   `json:"mode"`
	Step    int    `json:"step"`
}

// BotOption configures a Bot.
type BotOption func(*Bot)

// WithClock overrides the time source used for commit dates.
func WithClock(now func() time.Time) BotOption {
	return func(b *Bot) { b.now = now }
}

// WithHistoryLimit overrides how many turns are kept per chat.
func WithHistoryLimit(n int) BotOption {
	return func(b *Bot) {
		if n > 0 {
			b.historyLimit = n
		}
	}
}

// Bot runs the Telegram conversation: wizards for posting gigs and
// registering freelancers, and free-form chat through the completer.
type Bot struct {
	catalog      *Catalog
	completer    llm.Completer
	sessions     SessionStore
	market       Marketplace
	logger       *slog.Logger
	historyLimit int
	now          func() time.Time
}

// NewBot creates a Bot.
func NewBot(
	catalog *Catalog,
	completer llm.Completer,
	sessions SessionStore,
	market Marketplace,
	logger *slog.Logger,
	opts ...BotOption,
) (*Bot, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if completer == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if market == nil {
		return nil, fmt.Errorf("marketplace cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		catalog:      catalog,
		completer:    completer,
		sessions:     sessions,
		market:       market,
		logger:       logger.With(slog.String("component", "telegram_bot")),
		historyLimit: 30,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Handle processes one incoming chat message and returns the reply to send.
// The returned error is a session storage failure; the reply is still usable.
func (b *Bot) Handle(ctx context.Context, chatID int64, userName, text string) (BotReply, error) {
	log := logger.FromContextOrDefault(ctx, b.logger).With(slog.Int64("chat_id", chatID))
	ctx = logger.WithLogger(ctx, log)

	sess, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		log.Error("failed to load session", slog.String("error", redact.Error(err)))
		return BotReply{Text: b.catalog.Messages.Apology, Mode: ModeNone}, err
	}

	text = strings.TrimSpace(text)
	var reply BotReply
	switch {
	case sess.InWizard():
		reply = b.continueWizard(ctx, sess, userName, text)
	case isStartCommand(text):
		reply = BotReply{Success: true, Text: strings.TrimSpace(b.catalog.Messages.Welcome)}
	default:
		if mode := b.catalog.MatchTrigger(text); mode != ModeNone {
			reply = BotReply{Success: true, Text: b.startWizard(sess, mode)}
		} else {
			reply = b.converse(ctx, sess, text)
		}
	}

	reply.Mode = sess.Mode
	reply.Step = sess.Step
	if err := b.sessions.Save(ctx, sess); err != nil {
		log.Error("failed to save session", slog.String("error", redact.Error(err)))
		return reply, err
	}
	return reply, nil
}

func isStartCommand(text string) bool {
	cmd, _, _ := strings.Cut(text, " ")
	// Group chats address commands as /start@botname.
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == "/start" || cmd == "/help"
}

func (b *Bot) startWizard(sess *Session, mode Mode) string {
	w := b.catalog.Wizard(mode)
	sess.Start(mode)
	return w.Intro + "\n\n" + w.Steps[0].Question
}

func (b *Bot) continueWizard(ctx context.Context, sess *Session, userName, text string) BotReply {
	if b.catalog.IsCancel(text) {
		sess.Reset()
		return BotReply{Success: true, Text: b.catalog.Messages.Cancelled}
	}

	w := b.catalog.Wizard(sess.Mode)
	if w == nil || sess.Step < 0 || sess.Step >= len(w.Steps) {
		// Stored state from an older catalog; start over.
		sess.Reset()
		return BotReply{Success: true, Text: b.catalog.Messages.Cancelled}
	}

	step := w.Steps[sess.Step]
	if text == "" {
		return BotReply{Success: true, Text: b.catalog.Messages.EmptyAnswer + " " + step.Question}
	}
	if sess.Answers == nil {
		sess.Answers = map[string]string{}
	}
	sess.Answers[step.Field] = text
	sess.Step++
	if sess.Step < len(w.Steps) {
		return BotReply{Success: true, Text: w.Steps[sess.Step].Question}
	}

	mode, answers := sess.Mode, sess.Answers
	sess.Reset()

	done, err := b.commit(ctx, mode, sess.ChatID, userName, answers)
	if err != nil {
		logger.FromContextOrDefault(ctx, b.logger).Error("wizard commit failed",
			slog.String("mode", string(mode)),
			slog.String("error", redact.Error(err)))
		return BotReply{Text: b.catalog.Messages.CommitFailure}
	}
	return BotReply{Success: true, Text: w.DoneText(done)}
}

// commit writes the wizard's result and returns the values the done text
// is rendered with. Answers are parsed before the chat profile is resolved
// so a bad answer leaves no profile row behind.
func (b *Bot) commit(
	ctx context.Context,
	mode Mode,
	chatID int64,
	userName string,
	answers map[string]string,
) (map[string]string, error) {
	switch mode {
	case ModePostGig:
		draft, err := b.gigDraft(answers)
		if err != nil {
			return nil, err
		}
		profile, err := b.market.ProfileForChat(ctx, chatID, userName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve chat profile: %w", err)
		}
		gig, err := b.market.PostGig(ctx, profile.ID, draft)
		if err != nil {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, b.logger).Info("gig posted from chat",
			slog.String("gig_id", gig.ID.String()))
		return map[string]string{"title": gig.Title, "category": gig.Category}, nil

	case ModeRegisterFreelancer:
		reg := freelancerRegistration(answers)
		profile, err := b.market.ProfileForChat(ctx, chatID, userName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve chat profile: %w", err)
		}
		if _, err := b.market.RegisterFreelancer(ctx, profile.ID, reg); err != nil {
			return nil, err
		}
		return map[string]string{"categories": strings.Join(reg.Categories, ", ")}, nil
	}
	return nil, fmt.Errorf("unknown wizard mode %q", mode)
}

// freelancerRegistration maps wizard answers onto a registration. Answers
// naming no known category register under "Other", as gigs do.
func freelancerRegistration(answers map[string]string) domain.FreelancerRegistration {
	categories := matchCategories(answers["categories"])
	if len(categories) == 0 {
		categories = []string{fallbackCategory}
	}
	return domain.FreelancerRegistration{
		Categories:   categories,
		Availability: answers["availability"],
		Location:     answers["location"],
		Bio:          answers["bio"],
	}
}

func (b *Bot) gigDraft(answers map[string]string) (domain.GigDraft, error) {
	lo, hi, err := ParseBudget(answers["budget"])
	if err != nil {
		return domain.GigDraft{}, err
	}
	category := MatchCategory(answers["category"])
	if category == "" {
		category = fallbackCategory
	}
	return domain.GigDraft{
		Title:         answers["title"],
		Description:   answers["description"],
		Category:      category,
		Location:      answers["location"],
		BudgetMin:     lo,
		BudgetMax:     hi,
		DurationStart: b.now().UTC().Format(time.DateOnly),
		DurationEnd:   answers["duration"],
		PeopleNeeded:  1,
	}, nil
}

func (b *Bot) converse(ctx context.Context, sess *Session, text string) BotReply {
	log := logger.FromContextOrDefault(ctx, b.logger)

	sess.Remember(llm.RoleUser, text, b.historyLimit)
	out, err := b.completer.Complete(ctx, b.catalog.TelegramPrompt, sess.History)
	if err != nil {
		log.Error("completion failed", slog.String("error", redact.Error(err)))
		return BotReply{Text: b.catalog.Messages.Apology}
	}

	parsed := ParseTelegramReply(out)
	sess.Remember(llm.RoleAssistant, parsed.Text, b.historyLimit)

	parts := []string{}
	if parsed.Text != "" {
		parts = append(parts, parsed.Text)
	}
	if parsed.Action != nil {
		log.Debug("assistant proposed action", slog.String("action", string(parsed.Action.Type)))
		switch parsed.Action.Type {
		case ActionSearchGigs:
			parts = append(parts, b.search(ctx, parsed.Action.Data))
		case ActionPostGig:
			parts = append(parts, b.startWizard(sess, ModePostGig))
		case ActionRegisterFreelancer:
			parts = append(parts, b.startWizard(sess, ModeRegisterFreelancer))
		}
	}
	return BotReply{Success: true, Text: strings.Join(parts, "\n\n")}
}

func (b *Bot) search(ctx context.Context, data map[string]string) string {
	f := store.GigFilter{
		Status:   domain.GigStatusOpen,
		Category: MatchCategory(data["category"]),
		Location: data["location"],
		Limit:    SearchLimit,
	}
	gigs, err := b.market.SearchGigs(ctx, f)
	if err != nil {
		logger.FromContextOrDefault(ctx, b.logger).Error("gig search failed",
			slog.String("error", redact.Error(err)))
		return b.catalog.Messages.NoResults
	}
	if len(gigs) == 0 {
		return b.catalog.Messages.NoResults
	}
	return b.catalog.Messages.ResultsHeader + "\n" + FormatGigs(gigs)
}

// FormatGigs renders one line per gig for a chat message.
func FormatGigs(gigs []*domain.Gig) string {
	lines := make([]string, 0, len(gigs))
	for _, g := range gigs {
		line := fmt.Sprintf("• %s (%s, %s) %s", g.Title, g.Category, g.Location, formatBudget(g.BudgetMin, g.BudgetMax))
		if g.IsUrgent {
			line += " 🔥"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatBudget(lo, hi float64) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	if lo == hi {
		return f(lo)
	}
	return f(lo) + "-" + f(hi)
}

// fallbackCategory receives wizard answers that name no known category.
const fallbackCategory = "Other"

var budgetNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseBudget reads "500", "500-1000" or "$1,000 to $2,500" into a range.
// A single number is both ends; reversed ends are swapped.
func ParseBudget(s string) (float64, float64, error) {
	nums := budgetNumber.FindAllString(strings.ReplaceAll(s, ",", ""), 2)
	if len(nums) == 0 {
		return 0, 0, ErrNoBudget
	}
	values := make([]float64, len(nums))
	for i, n := range nums {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, 0, errors.Join(ErrNoBudget, err)
		}
		values[i] = v
	}
	lo, hi := values[0], values[len(values)-1]
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

// MatchCategory returns the taxonomy entry equal to s ignoring case and
// surrounding space, or "".
func MatchCategory(s string) string {
	s = strings.TrimSpace(s)
	for _, c := range domain.Categories {
		if strings.EqualFold(c, s) {
			return c
		}
	}
	return ""
}

// matchCategories splits a comma-separated answer and keeps the known
// categories, without duplicates.
func matchCategories(s string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if c := MatchCategory(part); c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
