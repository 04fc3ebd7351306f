package pagination

// DefaultLimit is the page size used when the request does not set one.
const DefaultLimit = 20

// MaxLimit is the largest page size a request may ask for.
const MaxLimit = 100
