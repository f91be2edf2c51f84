// Package notifier pushes admin alerts to Telegram. With no bot token
// configured every call is a no-op, so the platform runs fine without it.
package notifier

import (
	"fmt"

	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramNotifier struct {
	api         *tgbotapi.BotAPI
	adminChatID int64
	logger      *utils.Logger
}

func NewTelegramNotifier(token string, adminChatID int64, logger *utils.Logger) (*TelegramNotifier, error) {
	n := &TelegramNotifier{adminChatID: adminChatID, logger: logger}
	if token == "" || adminChatID == 0 {
		logger.Warn("Telegram notifier disabled: no bot token or admin chat configured")
		return n, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	n.api = api
	return n, nil
}

func (n *TelegramNotifier) send(text string) {
	if n.api == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.adminChatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Errorf("Failed to send admin notification: %v", err)
	}
}

func (n *TelegramNotifier) DepositRequested(user *models.User, request *models.DepositRequest) {
	go n.send(fmt.Sprintf("💰 New deposit request\nUser: %s\nAmount: %.2f\nMethod: %s",
		user.Username, request.Amount, request.Method))
}

func (n *TelegramNotifier) WithdrawalRequested(user *models.User, request *models.WithdrawalRequest) {
	go n.send(fmt.Sprintf("💸 New withdrawal request\nUser: %s\nAmount: %.2f\nMethod: %s",
		user.Username, request.Amount, request.Method))
}

// PendingSummary is used by the reminder job.
func (n *TelegramNotifier) PendingSummary(deposits, withdrawals int64) {
	if deposits == 0 && withdrawals == 0 {
		return
	}
	go n.send(fmt.Sprintf("⏳ Pending requests: %d deposit(s), %d withdrawal(s)", deposits, withdrawals))
}
