package api

// RequestIDHeader carries a per-request UUID on every DX API call so a
// failing call can be matched with the platform's logs.
const RequestIDHeader = "X-Request-ID"

// MediaTypeJSON is the content type of DX API request bodies.
const MediaTypeJSON = "application/json"
