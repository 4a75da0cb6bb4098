package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService posts order notifications to the ops chat.
type TelegramService struct {
	botToken   string
	opsChatID  string
	httpClient *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, opsChatID string) *TelegramService {
	return &TelegramService{
		botToken:   botToken,
		opsChatID:  opsChatID,
		httpClient: http.DefaultClient,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification carries submitted-order data for the ops chat.
type OrderNotification struct {
	OrderNumber   string
	CustomerName  string
	CustomerType  string // B2C or B2B
	StateCode     string
	Items         []OrderItemNotification
	Subtotal      float64
	TotalGST      float64
	TotalDiscount float64
	GrandTotal    float64
}

// OrderItemNotification is one line of the notification.
type OrderItemNotification struct {
	Name     string
	Variant  string
	Quantity int
	Price    float64 // GST-inclusive unit price
}

// FormatAmount renders a rupee amount with two decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// NotifyOrderSubmitted posts a submitted order to the ops chat.
func (s *TelegramService) NotifyOrderSubmitted(order OrderNotification) error {
	if s.opsChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		label := item.Name
		if item.Variant != "" {
			label = fmt.Sprintf("%s (%s)", item.Name, item.Variant)
		}
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			label,
			item.Quantity,
			FormatAmount(item.Price),
			FormatAmount(item.Price*float64(item.Quantity)),
		))
	}

	message := fmt.Sprintf(`<b>🛒 ORDER SUBMITTED</b>
<b>📋 Order:</b> %s
<b>👤 Customer:</b> %s (%s)
<b>📍 State:</b> %s
<b>📦 Items:</b>
%s
<b>Taxable:</b> %s
<b>Discount:</b> %s
<b>GST:</b> %s
<b>💰 Total:</b> %s`,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerType,
		order.StateCode,
		itemsList.String(),
		FormatAmount(order.Subtotal),
		FormatAmount(order.TotalDiscount),
		FormatAmount(order.TotalGST),
		FormatAmount(order.GrandTotal),
	)

	return s.SendMessage(s.opsChatID, strings.TrimSpace(message))
}
