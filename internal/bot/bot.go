package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/swopnil7/The-OG/internal/activity"
	"github.com/swopnil7/The-OG/internal/config"
	"github.com/swopnil7/The-OG/internal/quiz"
	"github.com/swopnil7/The-OG/internal/routine"
	"github.com/swopnil7/The-OG/internal/session"
	"github.com/swopnil7/The-OG/internal/store"
	"github.com/swopnil7/The-OG/internal/usernames"
	"github.com/swopnil7/The-OG/internal/voicelog"
)

// Bot represents the Discord bot instance
type Bot struct {
	config  *config.Config
	session *discordgo.Session

	store     *store.Store
	usernames *usernames.Registry
	routine   *routine.Service
	activity  *activity.Tracker
	voice     *voicelog.Logger
	trivia    *quiz.Client
	scores    *quiz.Scores

	games *session.Registry
	rng   session.Rand

	commands []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	discord, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Set intents
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates

	// Initialize storage
	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	b := &Bot{
		config:    cfg,
		session:   discord,
		store:     st,
		usernames: usernames.NewRegistry(st),
		routine:   routine.NewService(st),
		activity:  activity.NewTracker(st),
		voice:     voicelog.NewLogger(st),
		trivia:    quiz.NewClient(cfg.TriviaBaseURL),
		scores:    quiz.NewScores(st),
		games:     session.NewRegistry(),
		rng:       session.SystemRand(),
	}

	// Register event handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and registers slash commands
func (b *Bot) Start() error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handleMessageCreate)
	b.session.AddHandler(b.handleVoiceStateUpdate)
	b.session.AddHandler(b.handleGuildCreate)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction routes slash commands, button presses and modal
// submissions.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.handleModalSubmit(s, i)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	if i.GuildID == "" {
		respondEphemeral(s, i, "This bot only works inside a server.")
		return
	}

	switch data.Name {
	case "addgame":
		b.handleAddGame(s, i)
	case "view":
		b.handleView(s, i)
	case "games":
		b.handleGames(s, i)
	case "viewuser":
		b.handleViewUser(s, i)
	case "routineday":
		b.handleRoutineDay(s, i)
	case "routineweek":
		b.handleRoutineWeek(s, i)
	case "changeday":
		b.handleChangeDay(s, i)
	case "activity":
		b.handleActivity(s, i)
	case "rps":
		b.handleRPS(s, i)
	case "flip":
		b.handleFlip(s, i)
	case "quiz":
		b.handleQuiz(s, i)
	case "quizscore":
		b.handleQuizScore(s, i)
	case "announce":
		b.handleAnnounce(s, i)
	case "postfile":
		b.handlePostFile(s, i)
	case "helpme":
		b.handleHelp(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}

// isAdmin reports whether the invoking member has the administrator
// permission.
func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

// invokerID returns the invoking user's ID.
func invokerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
