package model

// Dashboard summarizes the clinic's day and month.
type Dashboard struct {
	AppointmentsToday     int               `json:"appointments_today"`
	MonthlyBilling        float64           `json:"monthly_billing"`
	DoctorsAvailableToday int               `json:"doctors_available_today"`
	AppointmentsTomorrow  []AppointmentView `json:"appointments_tomorrow"`
}
