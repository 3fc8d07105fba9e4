// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// domain type with ToDomain and <Name>ModelFromDomain.
//
// Files follow the bounded contexts of the domain layer:
//   - base.go: shared columns (ID, timestamps, version)
//   - identity.go: users
//   - catalog.go: categories and products
//   - cart.go: carts and cart items
//   - order.go: orders, order items and coupons
//   - booking.go: service packages and bookings
//   - academy.go: makeup classes and enrollments
//   - gallery.go, testimonial.go, setting.go: site content
package models
