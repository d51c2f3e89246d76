package fs

// Version of devserve
var Version = "v0.3.0-DEV"
