package telegram

import (
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// Settings 机器人配置
type Settings struct {
	Token  string
	Client *http.Client
}

type Telegram struct {
	logger   *zap.Logger
	settings Settings
	client   *tele.Bot

	// StatusProvider 返回 /status 命令的回复内容
	StatusProvider func() string
}

type Option func(telegram *Telegram)

func NewTelegram(logger *zap.Logger, settings Settings, options ...Option) (*Telegram, error) {

	poller := &tele.LongPoller{Timeout: 10 * time.Second}

	userMiddleware := tele.NewMiddlewarePoller(poller, func(u *tele.Update) bool {

		return true
	})

	client, err := tele.NewBot(tele.Settings{
		ParseMode: tele.ModeMarkdown,
		Token:     settings.Token,
		Poller:    userMiddleware,
		Client:    settings.Client,
	})
	if err != nil {
		return nil, err
	}

	client.Use(middleware.AutoRespond())

	err = client.SetCommands([]tele.Command{
		{Text: "/start", Description: "启动机器人，显示帮助"},
		{Text: "/help", Description: "获取帮助信息"},
		{Text: "/status", Description: "查看同步状态"},
	})
	if err != nil {
		return nil, err
	}

	bot := &Telegram{
		logger:   logger,
		settings: settings,
		client:   client,
	}

	client.Handle("/start", bot.handleHelp)
	client.Handle("/help", bot.handleHelp)
	client.Handle("/status", bot.handleStatus)

	for _, option := range options {
		option(bot)
	}

	return bot, nil
}

func (r *Telegram) handleHelp(c tele.Context) error {
	return c.Send("Lens 钱包分析机器人\n/status 查看同步状态")
}

func (r *Telegram) handleStatus(c tele.Context) error {
	if r.StatusProvider == nil {
		return c.Send("同步循环未启动")
	}
	return c.Send(r.StatusProvider())
}

func (r *Telegram) Start() {
	go r.client.Start()
}

func (r *Telegram) Notify(chatId, msg string) error {
	_chatId := cast.ToInt(chatId)
	_, err := r.client.Send(tele.ChatID(_chatId), msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}
