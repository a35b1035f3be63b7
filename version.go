package keysort

// Version is the library version, overridden at build time with
// -ldflags "-X github.com/aretw0/keysort.Version=...".
var Version = "0.1.0"
