// Package selection tracks which photos and albums the user has selected in the grid.
//
// A [Store] holds two membership sets and pushes every change to a [View], so the rendered
// "selected" marks and the toolbar count always match the sets.
package selection
