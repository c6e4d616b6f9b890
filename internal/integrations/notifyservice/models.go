package notifyservice

// BookingNotification модель уведомления о бронировании
type BookingNotification struct {
	BookingID         int64   `json:"booking_id"`
	CustomerName      string  `json:"customer_name"`
	CustomerEmail     string  `json:"customer_email"`
	ServiceName       string  `json:"service_name"`
	ServiceCategory   string  `json:"service_category"` // landscaping / pressure_washing (выбор темы письма)
	BookingDate       string  `json:"booking_date"`     // YYYY-MM-DD
	StartTime         string  `json:"start_time"`       // HH:MM
	EndTime           string  `json:"end_time"`         // HH:MM
	Status            string  `json:"status"`
	ServiceAddress    string  `json:"service_address"`
	CustomDescription *string `json:"custom_description,omitempty"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
