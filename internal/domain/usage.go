package domain

// UsageEvent captures one generation attempt for analytics. Recording is a
// side effect and never fails the request that produced it.
type UsageEvent struct {
	UserID     string
	CreationID string
	Kind       Kind
	Success    bool
	LatencyMS  int
	Locale     string
	Country    string
}
