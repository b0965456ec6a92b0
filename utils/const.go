package utils

const (
	// UserAgent is sent to public APIs that require identification (Nominatim)
	UserAgent = "matrixweather (+https://github.com/Brawl345/matrixweather)"
)
