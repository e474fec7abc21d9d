package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var kindColors = map[Kind]int{
	KindOverspending:    0xD14D41,
	KindCheatMeal:       0xDA702C,
	KindDailyLimit:      0x3AA99F,
	KindWorkoutDay:      0x4385BE,
	KindWorkoutComplete: 0x879A39,
	KindProgressPhoto:   0x8B7EC8,
}

type sendFunc func(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)

// Discord posts messages as embeds to one channel through the bot REST API.
type Discord struct {
	channelID string
	send      sendFunc
}

// NewDiscord creates a bot-token session. No gateway connection is opened.
func NewDiscord(token, channelID string) (*Discord, error) {
	if token == "" || channelID == "" {
		return nil, errors.New("notify: discord token and channel are required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	return &Discord{channelID: channelID, send: s.ChannelMessageSendEmbed}, nil
}

// Notify implements Notifier.
func (d *Discord) Notify(ctx context.Context, m Message) error {
	embed := &discordgo.MessageEmbed{
		Title:       m.Title,
		Description: m.Body,
		Color:       kindColors[m.Kind],
		Footer:      &discordgo.MessageEmbedFooter{Text: "zenith · " + string(m.Kind)},
	}
	if _, err := d.send(d.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord send: %w", err)
	}
	return nil
}
