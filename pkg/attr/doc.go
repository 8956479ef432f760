// Package attr resolves attribute lists into styles and builds the chart
// style sheet.
//
// An attribute list is processed left to right. Literal entries are
// translated into declarations (color sets fill and stroke, size sets r,
// thickness sets stroke-width, arrowTip sets marker-end, pattern sets
// stroke-dasharray; other keys pass through). Alias references are collected
// as CSS classes. Finally fill and stroke values naming a color alias are
// replaced by var(--name).
//
// All state lives in an explicit [Context]; nothing is shared between
// charts. [MergeWithDefaults] builds the built-in aliases fresh on every call
// so that one chart's customizations can never leak into another's.
package attr
