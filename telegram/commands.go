package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands lists the commands shown in the client's command menu.
func Commands(answerCommand string) []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: answerCommand, Description: "Cari di StackOverFlow"},
	}
}

// RegisterCommands publishes Commands with setMyCommands.
func RegisterCommands(bot *tgbotapi.BotAPI, answerCommand string) error {
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(Commands(answerCommand)...)); err != nil {
		return fmt.Errorf("telegram: setMyCommands: %w", err)
	}
	return nil
}
