package utils

import (
	"fmt"
	"log/slog"
	"strings"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"go-shop/models"
)

// EmailService sends transactional email through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
	logger *slog.Logger
}

func NewEmailService(apiKey, sender string, logger *slog.Logger) *EmailService {
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
		logger: logger,
	}
}

// SendOrderConfirmation emails the user a summary of their placed order.
func (es *EmailService) SendOrderConfirmation(toEmail, name string, order *models.Order) error {
	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "<li>%s x%d &ndash; $%.2f</li>", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}

	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><ul>%s</ul><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		name,
		order.ID.Hex(),
		lines.String(),
		order.TotalAmount,
	)
	plainContent := fmt.Sprintf(
		"Dear %s, your order %s has been placed. Total: $%.2f.",
		name, order.ID.Hex(), order.TotalAmount,
	)

	message := mail.NewSingleEmail(
		mail.NewEmail("", es.sender),
		subject,
		mail.NewEmail(name, toEmail),
		plainContent,
		htmlContent,
	)

	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	es.logger.Info("order confirmation sent",
		slog.String("order_id", order.ID.Hex()),
		slog.String("to", toEmail),
	)
	return nil
}
