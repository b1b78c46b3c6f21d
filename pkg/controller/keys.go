package controller

// Well-known state keys set by the HTTP host.
const (
	KeyParams     = "params"
	KeyUser       = "user"
	KeyStore      = "store"
	KeyCollection = "collection"
)
