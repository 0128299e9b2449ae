// Package domain contains the core business entities and errors for askbase.
// It has no dependencies on infrastructure adapters.
package domain
