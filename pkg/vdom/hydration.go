package vdom

import (
	"fmt"
	"sync"
)

// HIDGenerator generates unique hydration IDs for interactive elements.
type HIDGenerator struct {
	counter uint32
	mu      sync.Mutex
}

// NewHIDGenerator creates a new HIDGenerator.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID (e.g., "h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("h%d", g.counter)
}

// AssignHIDs walks the tree and assigns HIDs to interactive elements.
// An element is interactive if it has event listeners.
func AssignHIDs(node *VNode, gen *HIDGenerator) {
	walk(node, func(v *VNode) {
		if v.IsInteractive() && v.HID == "" {
			v.HID = gen.Next()
		}
	})
}

// CollectHIDs returns a map of HID to VNode for all nodes with HIDs.
func CollectHIDs(node *VNode) map[string]*VNode {
	result := make(map[string]*VNode)
	walk(node, func(v *VNode) {
		if v.HID != "" {
			result[v.HID] = v
		}
	})
	return result
}

// FindHID finds a node by its HID in the tree.
func FindHID(node *VNode, hid string) *VNode {
	if hid == "" {
		return nil
	}
	return find(node, func(v *VNode) bool { return v.HID == hid })
}

// CountInteractive returns the number of interactive elements in the tree.
func CountInteractive(node *VNode) int {
	count := 0
	walk(node, func(v *VNode) {
		if v.IsInteractive() {
			count++
		}
	})
	return count
}
