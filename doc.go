// Package main provides the entry point of the rokkenjima watchface runtime.
// It renders an analogue Pebble watchface on a simulated display, keeps its
// settings in a persisted blob and accepts updates over NATS, a drop directory
// and a small web interface built with Fiber.
package main
