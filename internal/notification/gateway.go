package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gerai-be/internal/logger"
	"gerai-be/internal/utils"
)

// Gateway delivers a WhatsApp text message to a single recipient.
type Gateway interface {
	SendMessage(ctx context.Context, phone, message string) error
}

type whatsappGateway struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewWhatsAppGateway(baseURL, token string) Gateway {
	if baseURL == "" {
		logger.L().Warn("WhatsApp gateway URL is empty, notifications will fail")
	}

	return &whatsappGateway{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *whatsappGateway) SendMessage(ctx context.Context, phone, message string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("phone", phone),
	)

	body := map[string]interface{}{
		"to":   utils.NormalizePhoneID(phone),
		"type": "text",
		"text": map[string]interface{}{
			"body": message,
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return err
	}
	req.Header.Add("Authorization", "Bearer "+g.token)
	req.Header.Add("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("whatsapp request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Error("whatsapp gateway returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return fmt.Errorf("whatsapp gateway error: status %d", resp.StatusCode)
	}

	return nil
}
