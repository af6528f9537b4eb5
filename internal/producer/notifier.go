package producer

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/model"
)

// Notifier pushes each freshly settled insight to a Telegram chat. It is an
// optional delivery channel: send failures are logged and dropped.
type Notifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	insights <-chan *model.Insight
}

func NewNotifier(bot *tgbotapi.BotAPI, chatID int64, insights <-chan *model.Insight) *Notifier {
	return &Notifier{
		bot:      bot,
		chatID:   chatID,
		insights: insights,
	}
}

func (n *Notifier) Produce(ctx context.Context) {
	go n.run(ctx)
}

func (n *Notifier) run(ctx context.Context) {
	logrus.Info("notifier producer started")
	for {
		select {
		case <-ctx.Done():
			logrus.Infof("notifier producer stopped: %v", ctx.Err())
			return
		case insight := <-n.insights:
			message := tgbotapi.NewMessage(n.chatID, formatInsight(insight))
			if _, err := n.bot.Send(message); err != nil {
				logrus.Errorf("notifier couldn't send insight: %v", err)
				continue
			}
			logrus.Info("notifier delivered insight")
		}
	}
}

// formatInsight renders a plain-text digest of the insight: summary first,
// then tips and warnings as bullet lists.
func formatInsight(insight *model.Insight) string {
	var b strings.Builder
	b.WriteString(insight.Summary)

	if len(insight.Tips) > 0 {
		b.WriteString("\n\nTips:")
		for _, tip := range insight.Tips {
			b.WriteString("\n- ")
			b.WriteString(tip)
		}
	}
	if len(insight.Warnings) > 0 {
		b.WriteString("\n\nWarnings:")
		for _, warning := range insight.Warnings {
			b.WriteString("\n- ")
			b.WriteString(warning)
		}
	}
	b.WriteString(fmt.Sprintf("\n\nProjected savings: %.2f", insight.ProjectedSavings))
	return b.String()
}
