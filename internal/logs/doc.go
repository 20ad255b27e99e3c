// Package logs tails live simulator logs over the gateway websocket.
package logs
