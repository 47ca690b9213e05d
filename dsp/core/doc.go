// Package core holds small numeric and slice helpers shared by the
// time-stretching packages.
package core
