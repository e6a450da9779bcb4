package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/swopnil7/The-OG/internal/activity"
	"github.com/swopnil7/The-OG/internal/voicelog"
)

// handleGuildCreate makes sure a guild's data directory exists as soon
// as the bot sees the guild.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if err := b.store.EnsureGuild(g.ID); err != nil {
		slog.Error("Failed to prepare guild storage", "guild", g.ID, "error", err)
		return
	}
	slog.Info("Guild ready", "guild", g.ID, "name", g.Name)
}

// handleMessageCreate counts the message and applies any promotion the
// new count unlocks.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	count, err := b.activity.RecordMessage(m.GuildID, m.Author.ID)
	if err != nil {
		slog.Error("Failed to record message", "guild", m.GuildID, "user", m.Author.ID, "error", err)
		return
	}

	if m.Member == nil {
		return
	}

	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		slog.Warn("Guild not in state, skipping promotion check", "guild", m.GuildID, "error", err)
		return
	}

	roleNames, roleIDs := memberRoles(guild, m.Member.Roles)
	for _, promo := range activity.Eligible(roleNames, count) {
		b.applyPromotion(s, guild, m, promo, roleIDs)
	}
}

// memberRoles resolves a member's role IDs into names and returns a
// name-to-ID index for the guild's full role list.
func memberRoles(guild *discordgo.Guild, memberRoleIDs []string) ([]string, map[string]string) {
	byID := make(map[string]string, len(guild.Roles))
	byName := make(map[string]string, len(guild.Roles))
	for _, role := range guild.Roles {
		byID[role.ID] = role.Name
		byName[role.Name] = role.ID
	}

	names := make([]string, 0, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, byName
}

// applyPromotion swaps the member's old role for the new one and
// announces it. The swap is skipped when the target role doesn't exist
// in the guild.
func (b *Bot) applyPromotion(s *discordgo.Session, guild *discordgo.Guild, m *discordgo.MessageCreate, promo activity.Promotion, roleIDs map[string]string) {
	fromID, okFrom := roleIDs[promo.From]
	toID, okTo := roleIDs[promo.To]
	if !okFrom || !okTo {
		slog.Warn("Promotion roles missing in guild, skipping",
			"guild", guild.ID, "from", promo.From, "to", promo.To)
		return
	}

	if err := s.GuildMemberRoleRemove(guild.ID, m.Author.ID, fromID); err != nil {
		slog.Error("Failed to remove old role", "guild", guild.ID, "user", m.Author.ID, "role", promo.From, "error", err)
		return
	}
	if err := s.GuildMemberRoleAdd(guild.ID, m.Author.ID, toID); err != nil {
		slog.Error("Failed to add new role", "guild", guild.ID, "user", m.Author.ID, "role", promo.To, "error", err)
		return
	}

	slog.Info("Member promoted", "guild", guild.ID, "user", m.Author.ID, "from", promo.From, "to", promo.To)

	channelID := b.config.RolesChannelID
	if channelID == "" {
		channelID = m.ChannelID
	}
	announcement := fmt.Sprintf("🎉 Congratulations <@%s>! You've been promoted to **%s**!", m.Author.ID, promo.To)
	if _, err := s.ChannelMessageSend(channelID, announcement); err != nil {
		slog.Warn("Failed to announce promotion", "channel", channelID, "error", err)
	}
}

// handleVoiceStateUpdate logs joins and leaves; when the last person
// leaves a channel the accumulated log is posted and cleared.
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.GuildID == "" {
		return
	}
	if s.State.User != nil && v.UserID == s.State.User.ID {
		return
	}

	name := b.voiceUserName(s, v)

	var before string
	if v.BeforeUpdate != nil {
		before = v.BeforeUpdate.ChannelID
	}

	// A move between channels counts as a leave plus a join.
	if before != "" && before != v.ChannelID {
		b.recordVoiceLeave(s, v.GuildID, before, name, v.UserID)
	}
	if v.ChannelID != "" && before != v.ChannelID {
		if err := b.voice.Append(v.GuildID, v.ChannelID, name, voicelog.ActionJoined); err != nil {
			slog.Error("Failed to log voice join", "guild", v.GuildID, "channel", v.ChannelID, "error", err)
		}
	}
}

// recordVoiceLeave appends the leave entry and, if the channel is now
// empty, drains its log and posts the summary.
func (b *Bot) recordVoiceLeave(s *discordgo.Session, guildID, channelID, name, userID string) {
	if err := b.voice.Append(guildID, channelID, name, voicelog.ActionLeft); err != nil {
		slog.Error("Failed to log voice leave", "guild", guildID, "channel", channelID, "error", err)
		return
	}

	if !voiceChannelEmpty(s, guildID, channelID, userID) {
		return
	}

	entries, err := b.voice.Drain(guildID, channelID)
	if err != nil {
		slog.Error("Failed to drain voice log", "guild", guildID, "channel", channelID, "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	target := b.config.VoiceLogChannelID
	if target == "" {
		slog.Debug("No voice log channel configured, dropping summary", "guild", guildID)
		return
	}

	summary := voicelog.FormatSummary(channelName(s, channelID), entries)
	if _, err := s.ChannelMessageSend(target, summary); err != nil {
		slog.Warn("Failed to post voice log summary", "channel", target, "error", err)
	}
}

// voiceChannelEmpty reports whether nobody but the leaving user is
// still connected to the channel.
func voiceChannelEmpty(s *discordgo.Session, guildID, channelID, leavingUserID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		slog.Warn("Guild not in state, assuming channel not empty", "guild", guildID, "error", err)
		return false
	}
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID && vs.UserID != leavingUserID {
			return false
		}
	}
	return true
}

func (b *Bot) voiceUserName(s *discordgo.Session, v *discordgo.VoiceStateUpdate) string {
	if v.Member != nil && v.Member.User != nil {
		return v.Member.User.Username
	}
	if member, err := s.State.Member(v.GuildID, v.UserID); err == nil && member.User != nil {
		return member.User.Username
	}
	return v.UserID
}

func channelName(s *discordgo.Session, channelID string) string {
	if ch, err := s.State.Channel(channelID); err == nil {
		return ch.Name
	}
	if ch, err := s.Channel(channelID); err == nil {
		return ch.Name
	}
	return channelID
}
