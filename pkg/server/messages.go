package server

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client message types.
const (
	MessageEvent = "event"
	MessageSet   = "set"
)

// Server message types.
const (
	MessageRender = "render"
	MessageError  = "error"
)

// ClientMessage is sent by the browser.
//
//	{"type":"event","hid":"h1","event":"input","value":"x"}
//	{"type":"set","path":"count","value":5}
type ClientMessage struct {
	Type  string `json:"type"`
	HID   string `json:"hid,omitempty"`
	Event string `json:"event,omitempty"`
	Path  string `json:"path,omitempty"`
	Value any    `json:"value,omitempty"`
}

// ServerMessage is sent to the browser.
//
//	{"type":"render","html":"..."}
//	{"type":"error","error":"..."}
type ServerMessage struct {
	Type  string `json:"type"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}
