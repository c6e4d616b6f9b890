package notifyservice

import "context"

// DisabledClient заглушка клиента для notify_service.enabled = false.
// Уведомления молча пропускаются, бронирования работают как обычно.
type DisabledClient struct {
	log Logger
}

// NewDisabledClient создает клиент-заглушку
func NewDisabledClient(log Logger) *DisabledClient {
	return &DisabledClient{log: log}
}

// SendBookingConfirmation пропускает отправку подтверждения
func (c *DisabledClient) SendBookingConfirmation(_ context.Context, n *BookingNotification) error {
	c.log.Info("NotifyService disabled, skipping confirmation for booking_id=%d", n.BookingID)
	return nil
}

// SendBookingReminder пропускает отправку напоминания
func (c *DisabledClient) SendBookingReminder(_ context.Context, n *BookingNotification) error {
	c.log.Info("NotifyService disabled, skipping reminder for booking_id=%d", n.BookingID)
	return nil
}
