// Package telegram connects the assistant bot to the Telegram Bot API.
//
// Updates arrive through the HTTP webhook, are turned into tasks by
// UpdateProcessor and run on the task package's worker pool. Replies go back
// through a Sender backed by telebot.
package telegram
