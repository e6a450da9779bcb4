package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/swopnil7/The-OG/internal/routine"
	"github.com/swopnil7/The-OG/internal/session"
)

// buildDayChoices creates the weekday choices for routine commands
func buildDayChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(routine.Days))
	for i, day := range routine.Days {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{
			Name:  strings.ToUpper(day[:1]) + day[1:],
			Value: day,
		}
	}
	return choices
}

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	minQuestions := float64(1)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "addgame",
			Description: "Add or update a game username",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "game_name",
					Description: "The name of the game",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "The username in that game",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The user to register the username for (defaults to you)",
				},
			},
		},
		{
			Name:        "view",
			Description: "View all registered usernames for a game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "game_name",
					Description: "The name of the game",
					Required:    true,
				},
			},
		},
		{
			Name:        "games",
			Description: "List all games that have registered usernames",
		},
		{
			Name:        "viewuser",
			Description: "View a user's usernames across all games",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The user to look up",
					Required:    true,
				},
			},
		},
		{
			Name:        "routineday",
			Description: "View the class routine for a day",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "day",
					Description: "Day of the week",
					Required:    true,
					Choices:     buildDayChoices(),
				},
			},
		},
		{
			Name:        "routineweek",
			Description: "View the full week's class routine",
		},
		{
			Name:        "changeday",
			Description: "Replace the routine for a day (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "day",
					Description: "Day of the week",
					Required:    true,
					Choices:     buildDayChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "schedule",
					Description: "Comma-separated periods, e.g. Maths, Physics, Break, Lab",
					Required:    true,
				},
			},
		},
		{
			Name:        "activity",
			Description: "View a user's message count",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The user to look up (defaults to you)",
				},
			},
		},
		{
			Name:        "rps",
			Description: "Play Rock-Paper-Scissors against the bot or another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "opponent",
					Description: "The member to challenge (defaults to the bot)",
				},
			},
		},
		{
			Name:        "flip",
			Description: "Call a coin flip, alone or against another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "opponent",
					Description: "The member to challenge (optional)",
				},
			},
		},
		{
			Name:        "quiz",
			Description: "Take a multiple-choice trivia quiz",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "questions",
					Description: "Number of questions, 1 to 10 (defaults to 1)",
					MinValue:    &minQuestions,
					MaxValue:    10,
				},
			},
		},
		{
			Name:        "quizscore",
			Description: "View a user's accumulated quiz score",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "The user to look up (defaults to you)",
				},
			},
		},
		{
			Name:        "announce",
			Description: "Post an announcement to a channel (admin only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "The announcement text",
					Required:    true,
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "The channel to post in (defaults to the current one)",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:        "postfile",
			Description: "Turn typed text into a downloadable file",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "filename",
					Description: "File name including extension, e.g. notes.txt",
					Required:    true,
				},
			},
		},
		{
			Name:        "helpme",
			Description: "Show what every command does",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// optionMap indexes an interaction's options by name, since optional
// options arrive in whatever order the user filled them.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// handleAddGame handles the /addgame command
func (b *Bot) handleAddGame(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	gameName := opts["game_name"].StringValue()
	username := opts["username"].StringValue()

	target := i.Member.User
	if opt, ok := opts["member"]; ok {
		target = opt.UserValue(s)
	}
	if target.ID != invokerID(i) && !isAdmin(i) {
		respondEphemeral(s, i, "Only admins can register usernames for other members.")
		return
	}

	if err := b.usernames.Set(i.GuildID, gameName, target.ID, username); err != nil {
		slog.Error("Failed to save username", "guild", i.GuildID, "game", gameName, "error", err)
		respondEphemeral(s, i, "Failed to save the username. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Saved `%s` as %s's username for **%s**.",
		username, target.Username, strings.ToLower(strings.TrimSpace(gameName))))
}

// handleView handles the /view command
func (b *Bot) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	gameName := optionMap(i)["game_name"].StringValue()

	users, err := b.usernames.Game(i.GuildID, gameName)
	if err != nil {
		slog.Error("Failed to load usernames", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load usernames. Please try again.")
		return
	}
	if len(users) == 0 {
		respondWithMessage(s, i, fmt.Sprintf("No usernames registered for **%s** yet. Use `/addgame` to add one!",
			strings.ToLower(strings.TrimSpace(gameName))))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Usernames for %s:**\n", strings.ToLower(strings.TrimSpace(gameName))))
	for userID, username := range users {
		sb.WriteString(fmt.Sprintf("- <@%s>: `%s`\n", userID, username))
	}
	respondWithMessage(s, i, sb.String())
}

// handleGames handles the /games command
func (b *Bot) handleGames(s *discordgo.Session, i *discordgo.InteractionCreate) {
	games, err := b.usernames.Games(i.GuildID)
	if err != nil {
		slog.Error("Failed to load game list", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load the game list. Please try again.")
		return
	}
	if len(games) == 0 {
		respondWithMessage(s, i, "No games registered yet. Use `/addgame` to add one!")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Registered games:**\n")
	for _, g := range games {
		sb.WriteString(fmt.Sprintf("- %s\n", g))
	}
	respondWithMessage(s, i, sb.String())
}

// handleViewUser handles the /viewuser command
func (b *Bot) handleViewUser(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := optionMap(i)["member"].UserValue(s)

	entries, err := b.usernames.User(i.GuildID, member.ID)
	if err != nil {
		slog.Error("Failed to load usernames", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load usernames. Please try again.")
		return
	}
	if len(entries) == 0 {
		respondWithMessage(s, i, fmt.Sprintf("%s has no registered usernames.", member.Username))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Usernames for %s:**\n", member.Username))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("- %s: `%s`\n", e.Game, e.Username))
	}
	respondWithMessage(s, i, sb.String())
}

// handleRoutineDay handles the /routineday command
func (b *Bot) handleRoutineDay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	day := optionMap(i)["day"].StringValue()

	schedule, err := b.routine.Day(i.GuildID, day)
	if err != nil {
		if errors.Is(err, routine.ErrInvalidDay) {
			respondEphemeral(s, i, "That is not a valid school day.")
			return
		}
		slog.Error("Failed to load routine", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load the routine. Please try again.")
		return
	}

	respondWithMessage(s, i, routine.FormatDay(day, schedule))
}

// handleRoutineWeek handles the /routineweek command
func (b *Bot) handleRoutineWeek(s *discordgo.Session, i *discordgo.InteractionCreate) {
	week, err := b.routine.Week(i.GuildID)
	if err != nil {
		slog.Error("Failed to load routine", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load the routine. Please try again.")
		return
	}
	respondWithMessage(s, i, routine.FormatWeek(week))
}

// handleChangeDay handles the /changeday command
func (b *Bot) handleChangeDay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isAdmin(i) {
		respondEphemeral(s, i, "Only admins can change the routine.")
		return
	}

	opts := optionMap(i)
	day := opts["day"].StringValue()
	schedule := opts["schedule"].StringValue()

	if err := b.routine.SetDay(i.GuildID, day, schedule); err != nil {
		if errors.Is(err, routine.ErrInvalidDay) {
			respondEphemeral(s, i, "That is not a valid school day.")
			return
		}
		slog.Error("Failed to save routine", "guild", i.GuildID, "day", day, "error", err)
		respondEphemeral(s, i, "Failed to save the routine. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Routine for %s updated!", strings.ToUpper(day[:1])+day[1:]))
}

// handleActivity handles the /activity command
func (b *Bot) handleActivity(s *discordgo.Session, i *discordgo.InteractionCreate) {
	targetID := invokerID(i)
	if opt, ok := optionMap(i)["member"]; ok {
		targetID = opt.UserValue(s).ID
	}

	count, err := b.activity.Messages(i.GuildID, targetID)
	if err != nil {
		slog.Error("Failed to load activity", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load activity stats. Please try again.")
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("<@%s> has sent **%d** messages in this server.", targetID, count))
}

// handleRPS handles the /rps command
func (b *Bot) handleRPS(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.startVersusGame(s, i, session.KindRPS, session.RPSTTL,
		func(players []string) session.Rule { return session.NewRPS(players, b.rng) })
}

// handleFlip handles the /flip command
func (b *Bot) handleFlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.startVersusGame(s, i, session.KindFlip, session.FlipTTL,
		func(players []string) session.Rule { return session.NewFlip(players, b.rng) })
}

// startVersusGame spawns a one- or two-player session and posts its
// opening prompt with one button per choice.
func (b *Bot) startVersusGame(s *discordgo.Session, i *discordgo.InteractionCreate, kind string, ttl time.Duration, newRule func(players []string) session.Rule) {
	players := []string{invokerID(i)}
	if opt, ok := optionMap(i)["opponent"]; ok {
		opponent := opt.UserValue(s)
		if opponent.Bot {
			respondEphemeral(s, i, "Bots don't play. Leave the opponent empty to play against me.")
			return
		}
		if opponent.ID == invokerID(i) {
			respondEphemeral(s, i, "You can't challenge yourself.")
			return
		}
		players = append(players, opponent.ID)
	}

	channelID := i.ChannelID
	sess := session.New(kind, players, newRule(players), ttl, func(progress string) {
		b.expireGame(s, channelID, kind, players, progress)
	})
	b.games.Add(sess)

	opening := sess.Opening()
	text := opening.Text
	if len(players) == 2 {
		text = fmt.Sprintf("<@%s> challenged <@%s>! %s", players[0], players[1], text)
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    text,
			Components: promptComponents(kind, sess.ID(), opening),
		},
	})
	if err != nil {
		slog.Error("Failed to post game prompt", "kind", kind, "error", err)
		b.games.Remove(sess.ID())
	}
}

// expireGame runs when a session times out; the registry entry is
// removed and the channel gets a short note.
func (b *Bot) expireGame(s *discordgo.Session, channelID, kind string, players []string, progress string) {
	slog.Info("Game session timed out", "kind", kind, "progress", progress)

	var text string
	switch {
	case kind == session.KindQuiz:
		text = fmt.Sprintf("<@%s>'s quiz timed out (%s).", players[0], progress)
	case len(players) == 2:
		text = fmt.Sprintf("The %s game between <@%s> and <@%s> timed out.", kind, players[0], players[1])
	default:
		text = fmt.Sprintf("<@%s>'s %s game timed out.", players[0], kind)
	}

	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		slog.Warn("Failed to announce game timeout", "channel", channelID, "error", err)
	}
}

// handleQuiz handles the /quiz command
func (b *Bot) handleQuiz(s *discordgo.Session, i *discordgo.InteractionCreate) {
	count := 1
	if opt, ok := optionMap(i)["questions"]; ok {
		count = int(opt.IntValue())
	}

	// Fetching questions can take a moment, so defer the response.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		slog.Error("Failed to defer quiz response", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	questions := b.trivia.Fetch(ctx, count)

	players := []string{invokerID(i)}
	channelID := i.ChannelID
	sess := session.New(session.KindQuiz, players, session.NewQuiz(players[0], questions), session.QuizTTL, func(progress string) {
		b.expireGame(s, channelID, session.KindQuiz, players, progress)
	})
	b.games.Add(sess)

	opening := sess.Opening()
	components := promptComponents(session.KindQuiz, sess.ID(), opening)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &opening.Text,
		Components: &components,
	})
	if err != nil {
		slog.Error("Failed to post quiz prompt", "error", err)
		b.games.Remove(sess.ID())
	}
}

// handleQuizScore handles the /quizscore command
func (b *Bot) handleQuizScore(s *discordgo.Session, i *discordgo.InteractionCreate) {
	targetID := invokerID(i)
	if opt, ok := optionMap(i)["member"]; ok {
		targetID = opt.UserValue(s).ID
	}

	score, err := b.scores.Get(i.GuildID, targetID)
	if err != nil {
		slog.Error("Failed to load quiz score", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "Failed to load the quiz score. Please try again.")
		return
	}
	if score.Total == 0 {
		respondWithMessage(s, i, fmt.Sprintf("<@%s> hasn't answered any quiz questions yet.", targetID))
		return
	}

	accuracy := float64(score.Correct) / float64(score.Total) * 100
	respondWithMessage(s, i, fmt.Sprintf("<@%s> has answered **%d of %d** questions correctly (%.1f%%).",
		targetID, score.Correct, score.Total, accuracy))
}

// handleAnnounce handles the /announce command
func (b *Bot) handleAnnounce(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isAdmin(i) {
		respondEphemeral(s, i, "Only admins can make announcements.")
		return
	}

	opts := optionMap(i)
	message := opts["message"].StringValue()

	channelID := i.ChannelID
	if opt, ok := opts["channel"]; ok {
		channelID = opt.ChannelValue(s).ID
	}

	if _, err := s.ChannelMessageSend(channelID, message); err != nil {
		slog.Error("Failed to send announcement", "channel", channelID, "error", err)
		respondEphemeral(s, i, "Failed to send the announcement. Do I have access to that channel?")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Announcement posted in <#%s>.", channelID))
}

// handlePostFile handles the /postfile command by opening a modal for
// the file body; the upload happens on modal submit.
func (b *Bot) handlePostFile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	filename := strings.TrimSpace(optionMap(i)["filename"].StringValue())
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		respondEphemeral(s, i, "That file name doesn't look right. Use something like `notes.txt`.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "postfile:" + filename,
			Title:    "File content",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "content",
							Label:       "Text to put in the file",
							Style:       discordgo.TextInputParagraph,
							Required:    true,
							MaxLength:   4000,
							Placeholder: "Paste or type the file content here",
						},
					},
				},
			},
		},
	})
	if err != nil {
		slog.Error("Failed to open postfile modal", "error", err)
	}
}

// handleHelp handles the /helpme command
func (b *Bot) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	help := strings.Join([]string{
		"**Usernames**",
		"`/addgame` — save a game username (admins can save for others)",
		"`/view` — everyone's usernames for one game",
		"`/games` — all games with saved usernames",
		"`/viewuser` — one member's usernames across games",
		"",
		"**Class routine**",
		"`/routineday` — the routine for one day",
		"`/routineweek` — the whole week",
		"`/changeday` — replace a day's routine (admin only)",
		"",
		"**Activity**",
		"`/activity` — a member's message count",
		"",
		"**Games**",
		"`/rps` — rock-paper-scissors, solo or versus",
		"`/flip` — call a coin flip, solo or versus",
		"`/quiz` — a trivia quiz, 1 to 10 questions",
		"`/quizscore` — a member's lifetime quiz score",
		"",
		"**Utilities**",
		"`/announce` — post to a channel as the bot (admin only)",
		"`/postfile` — turn typed text into a downloadable file",
	}, "\n")

	respondEphemeral(s, i, help)
}

// promptComponents renders a prompt's choices as one row of buttons.
// Custom IDs carry kind and session ID so the component handler can
// route the click back to the right session.
func promptComponents(kind, sessionID string, p session.Prompt) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, len(p.Choices))
	for idx, c := range p.Choices {
		buttons[idx] = discordgo.Button{
			Label:    c.Label,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("%s:%s:%s", kind, sessionID, c.ID),
		}
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// Helper functions

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
