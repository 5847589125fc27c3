// Package media defines the host-native values node outputs carry (pixel
// buffers, audio clips) and the converters between them, base64 strings,
// and downloadable URLs.
package media
