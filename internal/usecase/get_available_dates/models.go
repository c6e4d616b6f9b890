package get_available_dates

// Request модель запроса на получение доступных дат месяца
type Request struct {
	Year  int
	Month int // 1-12
}

// Response модель ответа со списком дат месяца
type Response struct {
	Year  int
	Month int
	Days  []Day
}

// Day доступность одного дня месяца
type Day struct {
	Date      string // YYYY-MM-DD
	Available bool
}
