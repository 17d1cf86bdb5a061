// Package server serves a bound template as a live preview.
//
// GET / mounts a fresh page, renders it with hydration attributes and an
// inline client script. The script opens a websocket on /_vbind/ws; the
// server mounts another page for that session and keeps it alive. Browser
// events on elements with listeners are sent as JSON messages, dispatched
// on the session's tree, and answered with the re-rendered root:
//
//	client: {"type":"event","hid":"h1","event":"input","value":"x"}
//	client: {"type":"set","path":"count","value":5}
//	server: {"type":"render","html":"..."}
//	server: {"type":"error","error":"..."}
//
// Failures to apply a message are reported with an error message and leave
// the session open.
//
// With Config.Gatherer set, /metrics serves Prometheus metrics.
package server
