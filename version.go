package redline

// Version is the release version of the redline module.
var Version = "0.2.0"
