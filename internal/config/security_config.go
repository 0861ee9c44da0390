package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with admin role required
)

// RouteSecurityConfig maps named HTTP routes to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	"health": SecurityPublic,

	// Vehicles
	"vehicles.available": SecurityPublic,
	"vehicles.get":       SecurityAccess,
	"vehicles.create":    SecurityAccess,
	"vehicles.update":    SecurityAccess,
	"vehicles.status":    SecurityAccess,
	"vehicles.calendar":  SecurityPublic,
	"vehicles.conflicts": SecurityAccess,
	"owners.vehicles":    SecurityAccess,

	// Contracts
	"contracts.create": SecurityAdmin,
	"contracts.get":    SecurityAccess,
	"contracts.list":   SecurityAccess,
	"contracts.toggle": SecurityAdmin,

	// Bookings
	"bookings.quote":    SecurityPublic,
	"bookings.create":   SecurityAccess,
	"bookings.get":      SecurityAccess,
	"bookings.schedule": SecurityAccess,
	"bookings.status":   SecurityAccess,

	// Payments
	"payments.create": SecurityAccess,
	"payments.list":   SecurityAccess,

	// Earnings
	"earnings.vehicle": SecurityAccess,
	"earnings.owner":   SecurityAccess,
	"earnings.company": SecurityAdmin,

	// Settings
	"settings.get":    SecurityAccess,
	"settings.update": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a named route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to access protection for unknown routes
	return SecurityAccess
}
