// Package server exposes instruction decoding over HTTP and socket.io.
//
// Both transports accept the same Request and share Service, so a payload
// decodes identically through POST /decode, the socket.io "decode" event and
// the command line.
package server
