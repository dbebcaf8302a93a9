// Package widgets contains dumb render primitives for the dashboard screens.
//
// Allowed here:
// - stateless drawing/composition helpers (boxes, stacks, bars, tables, charts, popup overlay)
//
// Not allowed here:
// - key handling, navigation state, data loading or screen policy
package widgets
