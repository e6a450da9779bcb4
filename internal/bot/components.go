package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/swopnil7/The-OG/internal/session"
)

// handleComponent routes a button click back to its game session.
// Custom IDs look like "kind:sessionID:choice".
func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.SplitN(i.MessageComponentData().CustomID, ":", 3)
	if len(parts) != 3 {
		return
	}
	kind, sessionID, choice := parts[0], parts[1], parts[2]

	sess, ok := b.games.Get(sessionID)
	if !ok {
		respondEphemeral(s, i, "This game has expired.")
		return
	}

	res, err := sess.Submit(invokerID(i), choice)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotParticipant):
			respondEphemeral(s, i, "You are not part of this game.")
		case errors.Is(err, session.ErrAlreadySubmitted):
			respondEphemeral(s, i, "You have already made your choice.")
		case errors.Is(err, session.ErrFinished):
			respondEphemeral(s, i, "This game has already finished.")
		default:
			slog.Error("Failed to submit game choice", "kind", kind, "error", err)
			respondEphemeral(s, i, "Something went wrong. Please try again.")
		}
		return
	}

	switch {
	case res.Outcome != nil:
		b.finishGame(s, i, kind, sessionID, res.Outcome)
	case res.Next != nil:
		b.advanceGame(s, i, kind, sessionID, res)
	default:
		// Round not complete yet; acknowledge privately so the other
		// player can't see the choice.
		respondEphemeral(s, i, res.Ack)
	}
}

// advanceGame swaps the game message to the next prompt and delivers
// the per-round feedback privately.
func (b *Bot) advanceGame(s *discordgo.Session, i *discordgo.InteractionCreate, kind, sessionID string, res session.StepResult) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    res.Next.Text,
			Components: promptComponents(kind, sessionID, *res.Next),
		},
	})
	if err != nil {
		slog.Error("Failed to advance game prompt", "kind", kind, "error", err)
		return
	}

	if res.Ack != "" {
		b.followupEphemeral(s, i, res.Ack)
	}
}

// finishGame tears down a resolved session, persists any score and
// delivers the outcome.
func (b *Bot) finishGame(s *discordgo.Session, i *discordgo.InteractionCreate, kind, sessionID string, outcome *session.Outcome) {
	b.games.Remove(sessionID)

	if outcome.Score != nil {
		_, err := b.scores.Add(i.GuildID, outcome.Score.UserID, outcome.Score.Correct, outcome.Score.Total)
		if err != nil {
			slog.Error("Failed to save quiz score", "guild", i.GuildID, "user", outcome.Score.UserID, "error", err)
		}
	}

	if outcome.Private {
		// Strip the buttons from the public message and deliver the
		// result to the player alone.
		done := fmt.Sprintf("This %s game has finished.", kind)
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    done,
				Components: []discordgo.MessageComponent{},
			},
		})
		if err != nil {
			slog.Error("Failed to close game message", "kind", kind, "error", err)
			return
		}
		b.followupEphemeral(s, i, outcome.Summary)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    outcome.Summary,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		slog.Error("Failed to post game outcome", "kind", kind, "error", err)
	}
}

func (b *Bot) followupEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		slog.Warn("Failed to send followup", "error", err)
	}
}

// handleModalSubmit turns the text typed into the postfile modal into
// a file attachment.
func (b *Bot) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	if !strings.HasPrefix(data.CustomID, "postfile:") {
		return
	}
	filename := strings.TrimPrefix(data.CustomID, "postfile:")

	content := modalInputValue(data, "content")
	if content == "" {
		respondEphemeral(s, i, "The file content was empty, nothing to post.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Here is `%s`:", filename),
			Files: []*discordgo.File{
				{
					Name:        filename,
					ContentType: "text/plain",
					Reader:      strings.NewReader(content),
				},
			},
		},
	})
	if err != nil {
		slog.Error("Failed to post file", "filename", filename, "error", err)
	}
}

// modalInputValue digs a text input's value out of the submitted
// component tree.
func modalInputValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			input, ok := comp.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == customID {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}
