package constants

import "time"

// ScheduleKind names the variant of a parsed schedule
type ScheduleKind string

// LocationStatus is the wire name of an open-now evaluation
type LocationStatus string

const (
	AppName            = "locator"
	Version            = "v0.3.0"
	DefaultDataPath    = "~/.config/locator/locations.json"
	PregeoFileName     = "locations.pregeo.json"
	DefaultTimezone    = "Local"
	LogFileName        = "locator.log"
	DefaultKeyringUser = "database-connection"
	APIKeyKeyringUser  = "google-maps-api-key"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DefaultVisitWindowMin is the length given to a schedule time that has no explicit end
	DefaultVisitWindowMin = 240

	MinutesPerDay = 24 * 60

	// Schedule kinds
	ScheduleAlways              ScheduleKind = "always"
	ScheduleAppointment         ScheduleKind = "appointment"
	ScheduleWeekly              ScheduleKind = "scheduled"
	ScheduleMonthly             ScheduleKind = "monthly"
	ScheduleMonthlyUnstructured ScheduleKind = "monthly_unstructured"
	ScheduleUnparseable         ScheduleKind = "unparseable"
	ScheduleUnknown             ScheduleKind = "unknown"

	// Location statuses
	StatusOpen    LocationStatus = "open"
	StatusClosed  LocationStatus = "closed"
	StatusUnknown LocationStatus = "unknown"

	// Badge text
	BadgeOpen   = "Open now"
	BadgeClosed = "Closed"

	// Environment variables
	EnvGoogleAPIKey       = "GOOGLE_MAPS_API_KEY"
	EnvTimezone           = "LOCATOR_TIMEZONE"
	EnvDBConnection       = "LOCATOR_DB_CONNECTION"
	EnvNominatimUserAgent = "LOCATOR_NOMINATIM_USER_AGENT"

	// Geocoding
	GoogleGeocodeURL         = "https://maps.googleapis.com/maps/api/geocode/json"
	NominatimBaseURL         = "https://nominatim.openstreetmap.org"
	DefaultNominatimUA       = "Feeding-Foundation-geocoder/1.0 (github.com/therobbiedavis)"
	GoogleRequestInterval    = 150 * time.Millisecond
	NominatimRequestInterval = 1100 * time.Millisecond
	GeocodeTimeout           = 15 * time.Second

	// Server
	DefaultListenAddr     = ":8080"
	DefaultRequestsPerMin = 120
	DefaultReloadSpec     = "@every 5m"
	ShutdownTimeout       = 10 * time.Second

	// TUI
	StatusRefreshInterval = time.Minute

	// Database
	MaxOpenConns    = 10
	MaxIdleConns    = 5
	ConnMaxLifetime = 30 * time.Minute
)

// LocationTypes are offered when adding a location. Other values are allowed.
var LocationTypes = []string{"Food Pantry", "Soup Kitchen", "Community Fridge", "Mobile Pantry", "Meal Program", "Other"}
