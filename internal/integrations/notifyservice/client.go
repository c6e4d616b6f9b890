package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с NotifyService (email-уведомления клиентам).
// Все вызовы fire-and-forget: ошибка доставки логируется, но никогда
// не влияет на результат бронирования.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendBookingConfirmation отправляет подтверждение бронирования
func (c *Client) SendBookingConfirmation(ctx context.Context, n *BookingNotification) error {
	return c.send(ctx, "/internal/notifications/booking-confirmation", n)
}

// SendBookingReminder отправляет напоминание за сутки до визита
func (c *Client) SendBookingReminder(ctx context.Context, n *BookingNotification) error {
	return c.send(ctx, "/internal/notifications/booking-reminder", n)
}

func (c *Client) send(ctx context.Context, path string, n *BookingNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Недоступность сервиса уведомлений - деградация, не ошибка бронирования
		c.log.Error("NotifyService unavailable for booking_id=%d: %v", n.BookingID, err)
		return fmt.Errorf("%w: booking_id=%d, error=%v", ErrServiceDegraded, n.BookingID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		c.log.Info("Notification queued for booking_id=%d (%s)", n.BookingID, path)
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
