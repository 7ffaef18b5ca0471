package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/config"
	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/models"
)

// TelegramNotifier pushes high-severity verdicts to a Telegram chat so an
// operator sees dangerous URLs as they are analyzed.
type TelegramNotifier struct {
	api         *tgbotapi.BotAPI
	chatID      int64
	minSeverity int
	logger      *zap.Logger
}

// NewTelegramNotifier creates a notifier, or (nil, nil) when notifications
// are disabled in the config.
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifier.Enabled || cfg.Notifier.TelegramBotToken == "" {
		logger.Info("Telegram notifier is disabled (notifier.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifier.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:         botAPI,
		chatID:      cfg.Notifier.ChatID,
		minSeverity: cfg.Notifier.MinSeverity,
		logger:      logger,
	}, nil
}

// NotifyHighRisk sends an alert for verdicts at or above the configured
// severity threshold. Failures are logged, never surfaced to the analysis
// path.
func (n *TelegramNotifier) NotifyHighRisk(result *models.AnalysisResult) {
	if n == nil || result.RiskSeverityIndex < n.minSeverity {
		return
	}

	text := fmt.Sprintf(
		"High-risk URL detected\n\nURL: %s\nDomain: %s\nRisk: %s (%s)\nScore: %d/100\nSeverity: %d/100\nReason: %s",
		result.URL, result.Domain, result.RiskLevel, result.RiskType,
		result.TotalScore, result.RiskSeverityIndex, result.WhyRisk,
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send Telegram notification",
			zap.String("url", result.URL), zap.Error(err))
	}
}
