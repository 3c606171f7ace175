package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkrauchanka/tg-history-tutor/pkg/bot/handlers"
	"github.com/pkrauchanka/tg-history-tutor/pkg/bot/notifier"
	"github.com/pkrauchanka/tg-history-tutor/pkg/bot/quiz"
	"github.com/pkrauchanka/tg-history-tutor/pkg/config"
	"github.com/pkrauchanka/tg-history-tutor/pkg/db"
	"github.com/pkrauchanka/tg-history-tutor/pkg/logger"
	"github.com/pkrauchanka/tg-history-tutor/pkg/ui"
)

type botSender struct {
	b *bot.Bot
}

func (s botSender) SendStudyItem(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	return err
}

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	if err := db.SeedCorpus(); err != nil {
		logger.Error("failed to seed corpus", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.DefaultHandler),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, handlers.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, handlers.HandleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/quiz", bot.MatchTypeExact, handlers.HandleQuiz)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/marathon", bot.MatchTypeExact, handlers.HandleMarathon)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/skip", bot.MatchTypeExact, handlers.HandleSkip)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, handlers.HandleStats)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/addfact", bot.MatchTypePrefix, handlers.HandleAddFact)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/notify", bot.MatchTypePrefix, handlers.HandleNotify)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.QuizCallbackPrefix, bot.MatchTypePrefix, handlers.HandleQuizCallback)

	go notifier.StartPeriodicPushes(ctx, botSender{b: b})
	go quiz.DefaultManager.StartSweeper(ctx)

	logger.Info("Starting bot...")
	b.Start(ctx)
}
