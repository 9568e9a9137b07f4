package wire

import (
	"travel-marketplace/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, g guards) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/", bookingHandler.GetBookings)

		r.Group(func(r chi.Router) {
			r.Use(g.limit)

			r.Post("/", bookingHandler.CreateBooking)
			r.Post("/{id}/confirm", bookingHandler.ConfirmBooking)
			r.Post("/{id}/cancel", bookingHandler.CancelBooking)
		})
	})
}
