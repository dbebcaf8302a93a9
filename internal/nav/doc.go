// Package nav holds the navigation and layout state machine.
//
// Allowed here:
// - route path to section mapping and the sidebar item model
// - viewport classification and side-panel open/closed derivation
// - the Shell that owns NavigationState and notifies subscribers
//
// Not allowed here:
// - rendering, styling, or terminal IO
// - any knowledge of the content library
package nav
