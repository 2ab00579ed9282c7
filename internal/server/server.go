// Package server exposes the LINE webhook over echo. It owns the transport
// edge only; everything after signature verification goes through the
// application service.
package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/olivia-0916/storybot/internal/application"
	"github.com/olivia-0916/storybot/internal/domain"
)

type Server struct {
	echo    *echo.Echo
	bot     *linebot.Client
	service *application.StoryService
}

func New(service *application.StoryService, bot *linebot.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())

	s := &Server{echo: e, bot: bot, service: service}
	e.GET("/", s.root)
	e.POST("/callback", s.callback)
	return s
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) root(c echo.Context) error {
	return c.String(http.StatusOK, "storybot webhook is running!")
}

func (s *Server) callback(c echo.Context) error {
	events, err := s.bot.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			return c.NoContent(http.StatusBadRequest)
		}
		// Non-LINE traffic (health checks, scanners) is ignored, not failed.
		log.Printf("ignoring unparseable webhook request: %v", err)
		return c.String(http.StatusOK, "OK")
	}

	ctx := c.Request().Context()
	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		message, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			continue
		}

		key := domain.SessionKey(event.Source.UserID)
		log.Printf("message from %s: %s", key, message.Text)

		reply := s.service.HandleMessage(ctx, key, message.Text)
		if _, err := s.bot.ReplyMessage(event.ReplyToken, linebot.NewTextMessage(reply)).WithContext(ctx).Do(); err != nil {
			log.Printf("reply to %s: %v", key, err)
		}
	}

	return c.String(http.StatusOK, "OK")
}
