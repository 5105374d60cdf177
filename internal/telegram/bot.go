package telegram

import (
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/commands"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/translation"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// GetUpdatesChannel gets new updates via long polling
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// SendPhoto sends a rendered image with a caption
func (b *Bot) SendPhoto(p Photo) error {
	photo := tgbotapi.NewPhoto(p.ChatID, tgbotapi.FileBytes{
		Name:  p.Name,
		Bytes: p.Data,
	})
	photo.Caption = p.Caption
	photo.ParseMode = "MarkdownV2"
	photo.ReplyToMessageID = p.MessageID
	_, err := b.Bot.Send(photo)
	return errors.Wrap(err, "could not send photo")
}

// HandleUpdate processes Telegram updates and returns the reply text,
// or "" when the handler already replied itself.
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	var text string
	var err error

	chatID := u.Message.Chat.ID
	args := u.Message.CommandArguments()

	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "start", "help":
		text = commands.CommandHelp()
	case "add":
		text, err = commands.CommandAdd(chatID, args)
	case "update":
		text, err = commands.CommandUpdate(chatID, args)
	case "list":
		text, err = commands.CommandList(chatID)
	case "remove":
		text, err = commands.CommandRemove(chatID, args)
	case "chart":
		chartData, caption, chartErr := commands.CommandChart(args)
		if chartErr != nil {
			log.Error(chartErr)
			return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong. Please try again later."))
		}
		if chartData == nil {
			return caption
		}

		sendErr := b.SendPhoto(Photo{
			ChatID:    chatID,
			MessageID: u.Message.MessageID,
			Name:      "chart.png",
			Data:      chartData,
			Caption:   caption,
		})
		if sendErr != nil {
			log.Errorf("error sending chart: %v", sendErr)
		}
		return ""
	default:
		text = helpers.EscapeMarkdownV2(translation.Translate("❓ Unknown command. Send /help to see commands."))
	}

	if err != nil {
		log.Error(err)
		return helpers.EscapeMarkdownV2(translation.Translate("Something went wrong. Please try again later."))
	}

	return text
}
