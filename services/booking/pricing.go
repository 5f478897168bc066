// File: services/booking/pricing.go
package booking

// quartersPerHour converts a slot count into hours: four 15-minute quanta
// per hour.
const quartersPerHour = 4

// LessonPrice computes the point price of a booking: the tutor's hourly rate
// times the booked duration expressed in hours.
func LessonPrice(hourlyRate float64, slotCount int) float64 {
	return hourlyRate * float64(slotCount) / quartersPerHour
}
