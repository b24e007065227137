package common

const (
	// MaxStorePhotoCount represents the number of store photos admin can register.
	MaxStorePhotoCount = 10
	// MaxStoreDescriptionRunes limits store description length to keep payloads sane.
	MaxStoreDescriptionRunes = 2000
	// MaxRequestBody limits JSON request bodies for store endpoints.
	MaxRequestBody = 1 << 20
)
